// Package classify holds the in-memory draft of layer category assignments.
//
// A session opens from the store's current slug-to-category lookup, is
// edited locally, and either commits as the payload of a set-index-layers
// operation or is discarded. At most one session exists at a time.
package classify

import (
	"errors"
	"sync"
)

// ErrNotEditing is returned when a draft edit arrives outside a session.
var ErrNotEditing = errors.New("no classification session open")

// Session is the draft layer-to-category mapping. The zero value is a
// closed session, ready to open.
type Session struct {
	mu      sync.Mutex
	editing bool
	draft   map[string]string
}

// Open starts a session seeded from the given lookup. Opening while a
// session is already open is a no-op and reports false.
func (s *Session) Open(seed map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing {
		return false
	}
	s.editing = true
	s.draft = make(map[string]string, len(seed))
	for slug, category := range seed {
		s.draft[slug] = category
	}
	return true
}

// Editing reports whether a session is open.
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Set assigns a category to a layer slug in the draft.
func (s *Session) Set(slug, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	s.draft[slug] = category
	return nil
}

// Assignments returns a copy of the draft mapping.
func (s *Session) Assignments() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]string, len(s.draft))
	for slug, category := range s.draft {
		copied[slug] = category
	}
	return copied
}

// Discard drops the draft and closes the session.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
	s.draft = nil
}

// Commit closes the session and returns the draft for submission. It
// reports false when no session was open.
func (s *Session) Commit() (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return nil, false
	}
	draft := s.draft
	s.editing = false
	s.draft = nil
	return draft, true
}
