package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/formflow/internal/forms"
	"github.com/mkravets/formflow/internal/snapshot"
	"github.com/mkravets/formflow/internal/store"
)

type upsertRequest struct {
	Key         string        `json:"key"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Published   bool          `json:"published"`
	Fields      []forms.Field `json:"fields"`
	Env         *string       `json:"env,omitempty"` // defaults to s.env
}

type upsertResponse struct {
	OK   bool   `json:"ok"`
	ETag string `json:"etag"`
}

func (s *Server) handleUpsertForm(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	env := s.env
	if req.Env != nil && strings.TrimSpace(*req.Env) != "" {
		env = strings.TrimSpace(*req.Env)
	}

	form := forms.Form{
		Key:         strings.TrimSpace(req.Key),
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
		Fields:      req.Fields,
		Env:         env,
	}
	if err := forms.ValidateForm(form); err != nil {
		code := ErrCodeValidation
		switch {
		case errors.Is(err, forms.ErrInvalidCondition):
			code = ErrCodeInvalidCondition
		case errors.Is(err, forms.ErrInvalidDestination):
			code = ErrCodeInvalidDestination
		}
		BadRequestError(w, r, code, err.Error())
		return
	}

	params := store.UpsertParams{
		Key:         form.Key,
		Title:       form.Title,
		Description: form.Description,
		Published:   form.Published,
		Fields:      form.Fields,
		Env:         env,
	}
	if err := s.store.UpsertForm(r.Context(), params); err != nil {
		InternalError(w, r, "db upsert failed")
		return
	}

	// Snapshot only tracks the serving environment.
	if env == s.env {
		if err := s.RebuildSnapshot(r.Context(), env); err != nil {
			InternalError(w, r, "snapshot rebuild failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, upsertResponse{
		OK:   true,
		ETag: snapshot.Load().ETag,
	})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	form, err := s.store.GetFormByKey(r.Context(), key, s.env)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "form not found: "+key)
			return
		}
		InternalError(w, r, "db read failed")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := s.store.DeleteForm(r.Context(), key, s.env); err != nil {
		InternalError(w, r, "db delete failed")
		return
	}
	if err := s.RebuildSnapshot(r.Context(), s.env); err != nil {
		InternalError(w, r, "snapshot rebuild failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "etag": snapshot.Load().ETag})
}
