package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkravets/formflow/internal/api"
	"github.com/mkravets/formflow/internal/auth"
	"github.com/mkravets/formflow/internal/store"
)

// NewTestServer creates a test server with in-memory store for testing.
// Submissions are disabled; pass a dispatcher directly to api.NewServer
// when a test needs them.
func NewTestServer(t *testing.T, env, adminKey string) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	authn := auth.NewAuthenticator(adminKey, nil)
	server := api.NewServer(memStore, env, authn, nil, 0)
	return server, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// SeedForms populates the store with test forms.
func SeedForms(ctx context.Context, st store.Store, list []store.UpsertParams) error {
	for _, params := range list {
		if err := st.UpsertForm(ctx, params); err != nil {
			return err
		}
	}
	return nil
}
