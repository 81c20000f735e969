package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkravets/formflow/internal/engine"
	"github.com/mkravets/formflow/internal/forms"
	"github.com/mkravets/formflow/internal/snapshot"
	"github.com/mkravets/formflow/internal/store"
	"github.com/mkravets/formflow/internal/telemetry"
)

type resolveRequest struct {
	CurrentFieldID string         `json:"currentFieldId"`
	Value          any            `json:"value"`
	Answers        map[string]any `json:"answers,omitempty"`
}

type resolveResponse struct {
	NextFieldID   *string `json:"nextFieldId"`
	AppliedRuleID string  `json:"appliedRuleId,omitempty"`
	Reason        string  `json:"reason"`
	EndOfForm     bool    `json:"endOfForm"`
}

// handleResolveNext evaluates one navigation step against the published
// snapshot. Resolution is read-only: it never mutates the form or records
// the answer.
func (s *Server) handleResolveNext(w http.ResponseWriter, r *http.Request) {
	form, ok := s.publishedForm(w, r)
	if !ok {
		return
	}

	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentFieldID == "" {
		BadRequestError(w, r, ErrCodeMissingField, "currentFieldId is required")
		return
	}

	res := engine.Resolve(form.Fields, req.CurrentFieldID, req.Value, req.Answers)
	telemetry.Resolutions.WithLabelValues(string(res.Reason)).Inc()

	writeJSON(w, http.StatusOK, resolveResponse{
		NextFieldID:   res.NextFieldID,
		AppliedRuleID: res.AppliedRuleID,
		Reason:        string(res.Reason),
		EndOfForm:     res.EndOfForm(),
	})
}

type submitRequest struct {
	// Answers maps field id to the raw submitted value. Multi-select values
	// are expanded server-side into one answer row per selection.
	Answers map[string]any `json:"answers"`
}

type submitResponse struct {
	ID     string `json:"id"`
	Queued bool   `json:"queued"`
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		InternalError(w, r, "submissions are not enabled")
		return
	}

	form, ok := s.publishedForm(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Answers) == 0 {
		BadRequestError(w, r, ErrCodeMissingField, "answers are required")
		return
	}

	// Expand in field order so rows come out stable regardless of map order.
	var answers []forms.Answer
	for _, field := range engine.SortedFields(form.Fields) {
		value, present := req.Answers[field.ID]
		if !present {
			continue
		}
		answers = append(answers, engine.ExpandAnswer(field, value)...)
	}

	response := store.Response{
		ID:          uuid.NewString(),
		FormKey:     form.Key,
		Env:         s.env,
		Answers:     answers,
		SubmittedAt: time.Now().UTC(),
	}
	s.dispatcher.Dispatch(response)

	writeJSON(w, http.StatusAccepted, submitResponse{ID: response.ID, Queued: true})
}

// publishedForm looks up the {key} route param in the current snapshot and
// writes a 404 when the form is absent or unpublished.
func (s *Server) publishedForm(w http.ResponseWriter, r *http.Request) (forms.Form, bool) {
	key := chi.URLParam(r, "key")
	snap := snapshot.Load()
	form, ok := snap.Forms[key]
	if !ok {
		NotFoundError(w, r, "form not found: "+key)
		return forms.Form{}, false
	}
	return form, true
}
