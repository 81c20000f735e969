package store

import (
	"context"
	"errors"
	"time"

	"github.com/mkravets/formflow/internal/forms"
)

// ErrNotFound is returned when a form does not exist in the store.
var ErrNotFound = errors.New("form not found")

// Store defines the interface for form persistence operations.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// GetAllForms retrieves all forms for the given environment.
	// Returns an empty slice if no forms are found.
	GetAllForms(ctx context.Context, env string) ([]forms.Form, error)

	// GetFormByKey retrieves a single form by key and environment.
	// Returns ErrNotFound if the form does not exist.
	GetFormByKey(ctx context.Context, key, env string) (*forms.Form, error)

	// UpsertForm creates or updates a form definition.
	UpsertForm(ctx context.Context, params UpsertParams) error

	// DeleteForm removes a form by key and environment.
	// Returns no error if the form doesn't exist (idempotent).
	DeleteForm(ctx context.Context, key, env string) error

	// SaveResponse persists a completed form response.
	SaveResponse(ctx context.Context, response Response) error

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}

// UpsertParams contains the parameters for upserting a form.
type UpsertParams struct {
	Key         string        `json:"key"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Published   bool          `json:"published"`
	Fields      []forms.Field `json:"fields"`
	Env         string        `json:"env"`
}

// Response is a completed set of answers for one form.
type Response struct {
	ID          string         `json:"id"`
	FormKey     string         `json:"formKey"`
	Env         string         `json:"env"`
	Answers     []forms.Answer `json:"answers"`
	SubmittedAt time.Time      `json:"submittedAt"`
}
