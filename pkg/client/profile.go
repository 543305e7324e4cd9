package client

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment overrides applied on top of a profile.
const (
	EnvPlatform = "ERP_PLATFORM"
	EnvBaseURL  = "ERP_BASE_URL"
)

// Profile is the YAML client configuration.
//
//	platform: native
//	web_base_url: https://erp.example.com
//	native_base_url: http://10.0.2.2:8080
//	token_file: /home/me/.config/erpctl/token.json
type Profile struct {
	Platform      string `yaml:"platform"`
	WebBaseURL    string `yaml:"web_base_url"`
	NativeBaseURL string `yaml:"native_base_url"`
	TokenFile     string `yaml:"token_file"`
}

// LoadProfile reads path, if it exists, then applies ERP_PLATFORM and
// ERP_BASE_URL. ERP_BASE_URL replaces the base URL of the selected platform.
// An empty path skips the file.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read profile: %w", err)
		default:
			if err := yaml.Unmarshal(raw, p); err != nil {
				return nil, fmt.Errorf("parse profile %s: %w", path, err)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvPlatform)); v != "" {
		p.Platform = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		p.SetBaseURL(v)
	}
	if _, err := ParsePlatform(p.Platform); err != nil {
		return nil, err
	}
	return p, nil
}

// SetBaseURL replaces the base URL used by the profile's platform.
func (p *Profile) SetBaseURL(base string) {
	platform, _ := ParsePlatform(p.Platform)
	if platform == PlatformNative {
		p.NativeBaseURL = base
	} else {
		p.WebBaseURL = base
	}
}

// Config converts the profile to a client config.
func (p *Profile) Config() (Config, error) {
	platform, err := ParsePlatform(p.Platform)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Platform:      platform,
		WebBaseURL:    p.WebBaseURL,
		NativeBaseURL: p.NativeBaseURL,
	}, nil
}
