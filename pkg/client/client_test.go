package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	auth   string
	body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.requests = append(r.requests, recordedRequest{
			method: req.Method,
			path:   req.URL.Path,
			auth:   req.Header.Get("Authorization"),
			body:   string(raw),
		})
		r.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (r *recorder) last() recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[len(r.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newTestServer(t *testing.T, mux *http.ServeMux) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(rec.wrap(mux))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestBearerTokenAttachedOnlyWhenPresent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"id":"u-1","email":"a@b.c","role":"ADMIN"}}`)
	})
	srv, rec := newTestServer(t, mux)

	for _, platform := range []Platform{PlatformWeb, PlatformNative} {
		t.Run(string(platform), func(t *testing.T) {
			store := NewMemoryTokenStore("")
			c := New(Config{Platform: platform}, WithBaseURL(srv.URL), WithTokenStore(store))

			_, err := c.Me(context.Background())
			require.NoError(t, err)
			assert.Empty(t, rec.last().auth)

			require.NoError(t, store.SetToken(context.Background(), "abc"))
			me, err := c.Me(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "Bearer abc", rec.last().auth)
			assert.Equal(t, "u-1", me.ID)
		})
	}
}

func TestTransportsNormalizeResponses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req-1")
		writeJSON(w, http.StatusCreated, `{"data":{"ok":true}}`)
	})
	srv, rec := newTestServer(t, mux)

	transports := map[string]Transport{
		"web":    NewWebTransport(nil),
		"native": NewNativeTransport(0),
	}
	for name, transport := range transports {
		t.Run(name, func(t *testing.T) {
			header := make(http.Header)
			header.Set("Content-Type", "application/json")
			resp, err := transport.Do(context.Background(), &Request{
				Method: http.MethodPost,
				URL:    srv.URL + "/echo",
				Header: header,
				Body:   []byte(`{"x":1}`),
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusCreated, resp.Status)
			assert.Equal(t, "req-1", resp.Headers.Get("X-Request-Id"))

			var out struct {
				Data struct {
					OK bool `json:"ok"`
				} `json:"data"`
			}
			require.NoError(t, resp.Decode(&out))
			assert.True(t, out.Data.OK)
			assert.Equal(t, `{"x":1}`, rec.last().body)
			assert.Equal(t, http.MethodPost, rec.last().method)
		})
	}
}

func TestNativeTransportHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNativeTransport(0).Do(ctx, &Request{Method: http.MethodGet, URL: "http://127.0.0.1:1/"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","message":"insufficient permissions"}}`)
	})
	mux.HandleFunc("/sales", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv, _ := newTestServer(t, mux)
	c := New(Config{}, WithBaseURL(srv.URL))

	_, err := c.ListProducts(context.Background(), ListOptions{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "insufficient permissions", apiErr.Message)
	assert.True(t, IsStatus(err, http.StatusForbidden))

	_, err = c.ListSales(context.Background(), ListOptions{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestLoginStoresTokenAndLogoutClearsIt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"token":"tok-1","expires_at":"2024-01-08T10:00:00Z","user":{"id":"u-1","role":"HR"}}}`)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv, rec := newTestServer(t, mux)

	store := NewMemoryTokenStore("")
	c := New(Config{}, WithBaseURL(srv.URL+"/"), WithTokenStore(store))

	result, err := c.Login(context.Background(), "hr@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "HR", result.User.Role)
	assert.JSONEq(t, `{"email":"hr@example.com","password":"secret"}`, rec.last().body)
	assert.Empty(t, rec.last().auth)

	token, _ := store.Token(context.Background())
	assert.Equal(t, "tok-1", token)

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "Bearer tok-1", rec.last().auth)
	token, _ = store.Token(context.Background())
	assert.Empty(t, token)
}

func TestLogoutClearsTokenWhenServerRejects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`)
	})
	srv, _ := newTestServer(t, mux)

	store := NewMemoryTokenStore("stale")
	c := New(Config{}, WithBaseURL(srv.URL), WithTokenStore(store))

	err := c.Logout(context.Background())
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	token, _ := store.Token(context.Background())
	assert.Empty(t, token)
}

func TestListSendsPagingAndDecodesMoney(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("/inventory/products", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"data":[{"id":"p-1","sku":"BOLT-M8","unit_price":"12.35","reorder_level":5}],"meta":{"limit":20,"offset":40,"count":1}}`)
	})
	srv, _ := newTestServer(t, mux)
	c := New(Config{}, WithBaseURL(srv.URL))

	products, err := c.ListProducts(context.Background(), ListOptions{Limit: 20, Offset: 40})
	require.NoError(t, err)
	assert.Equal(t, "limit=20&offset=40", query)
	require.Len(t, products, 1)
	assert.Equal(t, "12.35", products[0].UnitPrice.String())
}

func TestResolveBaseURL(t *testing.T) {
	cfg := Config{WebBaseURL: "https://erp.example.com/", NativeBaseURL: "http://192.168.1.10:8080"}
	assert.Equal(t, "https://erp.example.com", ResolveBaseURL(PlatformWeb, cfg))
	assert.Equal(t, "http://192.168.1.10:8080", ResolveBaseURL(PlatformNative, cfg))
	assert.Equal(t, DefaultWebBaseURL, ResolveBaseURL(PlatformWeb, Config{}))
	assert.Equal(t, DefaultNativeBaseURL, ResolveBaseURL(PlatformNative, Config{}))

	_, err := ParsePlatform("desktop")
	assert.Error(t, err)
	p, err := ParsePlatform(" Native ")
	require.NoError(t, err)
	assert.Equal(t, PlatformNative, p)
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erpctl", "token.json")
	store := NewFileTokenStore(path)
	ctx := context.Background()

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetToken(ctx, "tok-9"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = NewFileTokenStore(path).Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-9", token)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: native\nweb_base_url: https://erp.example.com\nnative_base_url: http://10.0.0.5:8080\n"), 0o600))

	t.Setenv(EnvPlatform, "")
	t.Setenv(EnvBaseURL, "")
	p, err := LoadProfile(path)
	require.NoError(t, err)
	cfg, err := p.Config()
	require.NoError(t, err)
	assert.Equal(t, PlatformNative, cfg.Platform)
	assert.Equal(t, "http://10.0.0.5:8080", ResolveBaseURL(cfg.Platform, cfg))

	t.Setenv(EnvPlatform, "web")
	t.Setenv(EnvBaseURL, "http://override:9000")
	p, err = LoadProfile(path)
	require.NoError(t, err)
	cfg, err = p.Config()
	require.NoError(t, err)
	assert.Equal(t, PlatformWeb, cfg.Platform)
	assert.Equal(t, "http://override:9000", ResolveBaseURL(cfg.Platform, cfg))
	assert.Equal(t, "http://10.0.0.5:8080", cfg.NativeBaseURL)

	t.Setenv(EnvPlatform, "")
	t.Setenv(EnvBaseURL, "")
	p, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, p.Platform)

	t.Setenv(EnvPlatform, "desktop")
	_, err = LoadProfile("")
	assert.Error(t, err)
}
