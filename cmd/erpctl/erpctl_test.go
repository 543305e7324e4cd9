package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/erp-service/pkg/client"
)

func run(t *testing.T, tokens client.TokenStore, args ...string) (string, error) {
	t.Helper()
	t.Setenv(client.EnvPlatform, "")
	t.Setenv(client.EnvBaseURL, "")

	cmd := newRootCmd(tokens)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--profile", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLeaveDays(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		want       string
	}{
		{"full week", "2024-01-01", "2024-01-05", "5\n"},
		{"weekend only", "2024-01-06", "2024-01-07", "0\n"},
		{"reversed", "2024-01-05", "2024-01-01", "0\n"},
		{"across weekend", "2024-01-05", "2024-01-08", "2\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, nil, "leave", "days", tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}

	_, err := run(t, nil, "leave", "days", "2024-13-01", "2024-01-05")
	assert.Error(t, err)
	_, err = run(t, nil, "leave", "days", "2024-01-01")
	assert.Error(t, err)
}

func TestLoginListAndLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"token":"tok-1","expires_at":"2024-01-08T10:00:00Z","user":{"id":"u-1","email":"hr@example.com","role":"HR"}}}`)
	})
	var listAuth string
	mux.HandleFunc("/inventory/products", func(w http.ResponseWriter, r *http.Request) {
		listAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[{"id":"p-1","sku":"BOLT-M8","name":"Bolt","category":"hardware","unit_price":"12.5","reorder_level":5}]}`)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := client.NewMemoryTokenStore("")

	_, err := run(t, tokens, "--base-url", srv.URL, "login", "--email", "hr@example.com")
	assert.EqualError(t, err, "--email and --password are required")

	out, err := run(t, tokens, "--base-url", srv.URL, "login", "--email", "hr@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as hr@example.com (HR)")

	out, err = run(t, tokens, "--base-url", srv.URL, "products", "list")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", listAuth)
	assert.Contains(t, out, "BOLT-M8")
	assert.Contains(t, out, "12.50")

	out, err = run(t, tokens, "--base-url", srv.URL, "logout")
	require.NoError(t, err)
	assert.Equal(t, "logged out\n", out)
	token, _ := tokens.Token(context.Background())
	assert.Empty(t, token)
}

func TestInvalidPlatformFlag(t *testing.T) {
	_, err := run(t, client.NewMemoryTokenStore(""), "--platform", "desktop", "products", "list")
	assert.Error(t, err)
}
