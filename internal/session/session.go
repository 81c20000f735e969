// Package session maintains one form-filling traversal on top of the pure
// resolution engine: a current field, the history stack that makes Back
// return along the path actually walked, the per-field answer cache, and
// the end-of-form flag.
//
// A session is single-threaded from the caller's perspective; the one
// asynchronous boundary is the Resolver call inside Next, which may go over
// the network. While a resolution is in flight all navigation is rejected
// with ErrResolutionPending.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/mkravets/formflow/internal/engine"
	"github.com/mkravets/formflow/internal/forms"
)

var (
	// ErrResolutionPending is returned while a Next transition awaits its
	// resolver; the caller should retry after the pending call settles.
	ErrResolutionPending = errors.New("resolution already in flight")

	// ErrEndOfForm is returned by Next when the session already reached the
	// end of the form; changing the current answer re-opens navigation.
	ErrEndOfForm = errors.New("end of form reached")

	// ErrUnknownField is returned by Jump for ids not part of the snapshot.
	ErrUnknownField = errors.New("unknown field")
)

// Resolver computes the next-field outcome for one step. LocalResolver
// wraps the engine directly; a remote implementation delegates to the
// service, which is authoritative when used.
type Resolver interface {
	Resolve(ctx context.Context, currentFieldID string, value any, answers map[string]any) (engine.Resolution, error)
}

// LocalResolver resolves against a field snapshot in-process. It is the
// editor-preview simulation of the server-confirmed resolution.
type LocalResolver struct {
	Fields []forms.Field
}

func (l LocalResolver) Resolve(_ context.Context, currentFieldID string, value any, answers map[string]any) (engine.Resolution, error) {
	return engine.Resolve(l.Fields, currentFieldID, value, answers), nil
}

// Session is one traversal over a read-only field snapshot. All methods are
// safe for concurrent use, though callers are expected to drive one
// navigation at a time.
type Session struct {
	mu       sync.Mutex
	fields   []forms.Field
	byID     map[string]forms.Field
	resolver Resolver

	currentID string
	history   []string
	answers   map[string]any
	atEnd     bool
	busy      bool
}

// New creates a session positioned at the first field in order. The field
// snapshot is copied and never mutated.
func New(fields []forms.Field, resolver Resolver) *Session {
	sorted := engine.SortedFields(fields)
	byID := make(map[string]forms.Field, len(sorted))
	for _, f := range sorted {
		byID[f.ID] = f
	}

	s := &Session{
		fields:   sorted,
		byID:     byID,
		resolver: resolver,
		answers:  make(map[string]any),
	}
	if len(sorted) > 0 {
		s.currentID = sorted[0].ID
	} else {
		s.atEnd = true
	}
	return s
}

// Current returns the field the session is positioned at.
func (s *Session) Current() (forms.Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[s.currentID]
	return f, ok
}

// AtEnd reports whether the session reached end-of-form.
func (s *Session) AtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atEnd
}

// History returns a copy of the visited-field stack.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// Answer returns the cached answer for a field.
func (s *Session) Answer(fieldID string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.answers[fieldID]
	return v, ok
}

// SetAnswer caches a value for the current field without navigating. An
// edit while end-of-form is showing clears the flag: it reopens the
// possibility of a different branch.
func (s *Session) SetAnswer(value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return
	}
	s.answers[s.currentID] = value
	s.atEnd = false
}

// Next commits the value for the current field, resolves the next field and
// moves there, pushing the current field onto the history stack. The
// transition is all-or-nothing: a resolver failure leaves position and
// history untouched and is returned to the caller, who owns retries.
func (s *Session) Next(ctx context.Context, value any) (engine.Resolution, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return engine.Resolution{}, ErrResolutionPending
	}
	if s.atEnd {
		s.mu.Unlock()
		return engine.Resolution{}, ErrEndOfForm
	}
	s.busy = true
	currentID := s.currentID
	s.answers[currentID] = value
	answers := make(map[string]any, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	s.mu.Unlock()

	res, err := s.resolver.Resolve(ctx, currentID, value, answers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return engine.Resolution{}, err
	}

	s.history = append(s.history, currentID)
	if res.NextFieldID == nil {
		s.atEnd = true
	} else {
		s.currentID = *res.NextFieldID
		s.atEnd = false
	}
	return res, nil
}

// Back pops the most recently visited field off the history stack and moves
// there. It is a no-op on an empty stack and never clears cached answers,
// so re-visited fields show prior input. Back from the end-of-form screen
// returns to the last answered field.
func (s *Session) Back() (forms.Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || len(s.history) == 0 {
		f, ok := s.byID[s.currentID]
		return f, ok && !s.busy
	}

	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.currentID = last
	s.atEnd = false
	f, ok := s.byID[last]
	return f, ok
}

// Jump moves directly to a field, as when a user clicks a question in an
// editor's list. History is built only by answering questions in order, so
// the stack is reset: back-navigation stays meaningful only along the path
// actually walked.
func (s *Session) Jump(fieldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrResolutionPending
	}
	if _, ok := s.byID[fieldID]; !ok {
		return ErrUnknownField
	}
	s.currentID = fieldID
	s.history = s.history[:0]
	s.atEnd = false
	return nil
}

// Submission returns the accumulated well-formed (fieldId, value,
// selectedOptionId) entries, one per answered field with multiselect
// answers expanded to one entry per selected option. Fields appear in form
// order.
func (s *Session) Submission() []forms.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []forms.Answer
	for _, f := range s.fields {
		value, ok := s.answers[f.ID]
		if !ok {
			continue
		}
		out = append(out, engine.ExpandAnswer(f, value)...)
	}
	return out
}
