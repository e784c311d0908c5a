// Package session keeps per-browser form state between requests: how many
// documentation rows the inspection form shows and the images uploaded so
// far, so a re-submitted form does not need every file again.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"maps"
	"sync"
	"time"
)

const (
	// InitialRows is the number of documentation rows on a fresh form.
	InitialRows = 10
	// RowStep is how many rows one "add rows" action appends.
	RowStep = 2
	// MaxRows bounds the documentation gallery.
	MaxRows = 60

	// BowPhotoKey names the bow photo upload.
	BowPhotoKey = "foto_haluan"
)

// DocumentationKey names the upload of documentation row i (0-based).
func DocumentationKey(i int) string { return fmt.Sprintf("doc_img_%d", i) }

// State is a snapshot of one session.
type State struct {
	Rows    int
	Uploads map[string][]byte
}

type entry struct {
	state State
	seen  time.Time
}

// Store is an in-memory session table safe for concurrent use. Sessions
// idle for longer than the TTL are dropped by Sweep.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*entry
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, sessions: make(map[string]*entry)}
}

// NewID returns a random session identifier.
func NewID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("session: reading random bytes: %v", err))
	}
	return hex.EncodeToString(b[:])
}

// lookup returns the live entry for id, creating it when needed.
// Callers hold s.mu.
func (s *Store) lookup(id string) *entry {
	now := s.now()
	e, ok := s.sessions[id]
	if !ok || (s.ttl > 0 && now.Sub(e.seen) > s.ttl) {
		e = &entry{state: State{Rows: InitialRows, Uploads: map[string][]byte{}}}
		s.sessions[id] = e
	}
	e.seen = now
	return e
}

// Get returns a copy of the session state.
func (s *Store) Get(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.lookup(id).state
	st.Uploads = maps.Clone(st.Uploads)
	return st
}

// AddRows grows the documentation gallery by RowStep and returns the new
// row count.
func (s *Store) AddRows(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(id)
	e.state.Rows = min(e.state.Rows+RowStep, MaxRows)
	return e.state.Rows
}

// MergeUploads stores the non-empty uploads, replacing earlier files under
// the same key, and returns every upload of the session.
func (s *Store) MergeUploads(id string, uploads map[string][]byte) map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.lookup(id)
	for k, v := range uploads {
		if len(v) > 0 {
			e.state.Uploads[k] = v
		}
	}
	return maps.Clone(e.state.Uploads)
}

// Upload returns one stored upload.
func (s *Store) Upload(id, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	data, ok := e.state.Uploads[key]
	return data, ok
}

// Reset drops the uploads and row count of a session.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep removes expired sessions and reports how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if now.Sub(e.seen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of sessions held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
