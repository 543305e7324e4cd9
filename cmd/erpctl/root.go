package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/erp-service/pkg/client"
)

type rootOptions struct {
	profilePath string
	platform    string
	baseURL     string
	verbose     bool

	// tokens overrides the profile token file; set by tests.
	tokens client.TokenStore
}

func defaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "erpctl", "profile.yaml")
}

func newRootCmd(tokens client.TokenStore) *cobra.Command {
	opts := &rootOptions{tokens: tokens}

	cmd := &cobra.Command{
		Use:           "erpctl",
		Short:         "Command line client for the ERP service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.profilePath, "profile", defaultProfilePath(), "Client profile (YAML)")
	cmd.PersistentFlags().StringVar(&opts.platform, "platform", "", "Platform: web or native (overrides profile)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (overrides profile)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests to stderr")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newLeaveCmd(opts),
		newEmployeesCmd(opts),
		newProductsCmd(opts),
		newDashboardCmd(opts),
	)
	return cmd
}

// client builds an API client from the profile, environment and flags, in
// increasing order of precedence.
func (o *rootOptions) client() (*client.Client, error) {
	profile, err := client.LoadProfile(o.profilePath)
	if err != nil {
		return nil, err
	}
	if o.platform != "" {
		profile.Platform = o.platform
	}
	if o.baseURL != "" {
		profile.SetBaseURL(o.baseURL)
	}
	cfg, err := profile.Config()
	if err != nil {
		return nil, err
	}

	tokens := o.tokens
	if tokens == nil {
		path := profile.TokenFile
		if path == "" {
			if path, err = client.DefaultTokenPath(); err != nil {
				return nil, err
			}
		}
		tokens = client.NewFileTokenStore(path)
	}

	logger := zap.NewNop()
	if o.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	return client.New(cfg, client.WithTokenStore(tokens), client.WithLogger(logger)), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
