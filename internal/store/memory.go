package store

import (
	"context"
	"sync"
	"time"

	"github.com/mkravets/formflow/internal/forms"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses maps keyed by (key, env) with an RWMutex for thread-safe access.
// This implementation is suitable for development, testing, or
// single-instance deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	forms     map[memKey]forms.Form
	responses []Response
}

type memKey struct {
	key string
	env string
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forms: make(map[memKey]forms.Form),
	}
}

// GetAllForms retrieves all forms for the given environment.
func (m *MemoryStore) GetAllForms(ctx context.Context, env string) ([]forms.Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]forms.Form, 0, len(m.forms))
	for k, f := range m.forms {
		if k.env == env {
			result = append(result, f)
		}
	}
	return result, nil
}

// GetFormByKey retrieves a single form by key and environment.
func (m *MemoryStore) GetFormByKey(ctx context.Context, key, env string) (*forms.Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, exists := m.forms[memKey{key: key, env: env}]
	if !exists {
		return nil, ErrNotFound
	}
	return &f, nil
}

// UpsertForm creates or updates a form in memory.
func (m *MemoryStore) UpsertForm(ctx context.Context, params UpsertParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forms[memKey{key: params.Key, env: params.Env}] = forms.Form{
		Key:         params.Key,
		Title:       params.Title,
		Description: params.Description,
		Published:   params.Published,
		Fields:      params.Fields,
		Env:         params.Env,
		UpdatedAt:   time.Now().UTC(),
	}
	return nil
}

// DeleteForm removes a form from memory.
func (m *MemoryStore) DeleteForm(ctx context.Context, key, env string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.forms, memKey{key: key, env: env})
	return nil
}

// SaveResponse appends a completed response.
func (m *MemoryStore) SaveResponse(ctx context.Context, response Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses = append(m.responses, response)
	return nil
}

// Responses returns a copy of all stored responses, for tests and tooling.
func (m *MemoryStore) Responses() []Response {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Response, len(m.responses))
	copy(out, m.responses)
	return out
}

// Close releases the store; a no-op for memory.
func (m *MemoryStore) Close() error {
	return nil
}
