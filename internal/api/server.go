package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/mkravets/formflow/internal/auth"
	"github.com/mkravets/formflow/internal/snapshot"
	"github.com/mkravets/formflow/internal/store"
	"github.com/mkravets/formflow/internal/submit"
	"github.com/mkravets/formflow/internal/telemetry"
)

// maxBodySize limits request bodies to prevent memory exhaustion attacks
const maxBodySize = 1 << 20 // 1 MB

type Server struct {
	store          store.Store
	env            string
	auth           *auth.Authenticator
	dispatcher     *submit.Dispatcher
	rateLimitPerIP int

	// RequestTimeout bounds non-streaming requests, including one remote
	// resolution call. Zero means the 5s default.
	RequestTimeout time.Duration
}

// NewServer builds a Server for the given environment. dispatcher may be nil,
// in which case the responses endpoint is disabled.
func NewServer(st store.Store, env string, authn *auth.Authenticator, dispatcher *submit.Dispatcher, rateLimitPerIP int) *Server {
	return &Server{
		store:          st,
		env:            env,
		auth:           authn,
		dispatcher:     dispatcher,
		rateLimitPerIP: rateLimitPerIP,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(telemetry.Middleware)
	if s.rateLimitPerIP > 0 {
		r.Use(httprate.LimitByIP(s.rateLimitPerIP, time.Minute))
	}

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The snapshot stream stays open indefinitely, so it lives outside the
	// timeout group.
	r.Get("/v1/forms/events", s.handleEvents)

	timeout := s.RequestTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// public: published forms
		r.Get("/v1/forms/snapshot", s.handleSnapshot)
		r.Get("/v1/forms/{key}", s.handleGetForm)
		r.Post("/v1/forms/{key}/next", s.handleResolveNext)
		r.Post("/v1/forms/{key}/responses", s.handleSubmitResponse)

		// admin (protected)
		r.Post("/v1/forms", s.requireAdmin(s.handleUpsertForm))
		r.Delete("/v1/forms/{key}", s.requireAdmin(s.handleDeleteForm))
	})

	return r
}

func (s *Server) handleSnapshot(w http.ResponseWriter, req *http.Request) {
	snap := snapshot.Load()
	if inm := req.Header.Get("If-None-Match"); inm != "" && inm == snap.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", snap.ETag)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	_ = json.NewEncoder(w).Encode(snap)
}

// RebuildSnapshot loads forms for env and swaps the atomic snapshot.
func (s *Server) RebuildSnapshot(ctx context.Context, env string) error {
	all, err := s.store.GetAllForms(ctx, env)
	if err != nil {
		return err
	}
	snap := snapshot.Build(all, env)
	snapshot.Update(snap)
	telemetry.SnapshotForms.Set(float64(len(snap.Forms)))
	return nil
}

// ---- middleware & helpers ----

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Authenticate(r.Header.Get("Authorization")) {
			UnauthorizedError(w, r, "invalid or missing api key")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes a size-limited JSON body and writes the error response
// itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err.Error() == "http: request body too large" {
			RequestTooLargeError(w, r, "Request body too large")
			return false
		}
		BadRequestError(w, r, ErrCodeInvalidJSON, "invalid JSON")
		return false
	}
	return true
}
