package engine

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/lo"

	"github.com/drummonds/imgconv/converter"
	"github.com/drummonds/imgconv/formats"
)

// SessionStore keeps one conversion pipeline per browser session
type SessionStore struct {
	mu        sync.RWMutex
	pipelines map[ulid.ULID]*converter.Pipeline
	defaults  formats.Options
}

// NewSessionStore creates an empty store whose sessions start with defaults
func NewSessionStore(defaults formats.Options) *SessionStore {
	return &SessionStore{
		pipelines: make(map[ulid.ULID]*converter.Pipeline),
		defaults:  defaults,
	}
}

// Create starts a new idle session
func (s *SessionStore) Create() (ulid.ULID, *converter.Pipeline) {
	p := converter.NewPipeline(s.defaults)
	id := p.Session().ID
	s.mu.Lock()
	s.pipelines[id] = p
	s.mu.Unlock()
	return id, p
}

// Get looks up a session by its string ID
func (s *SessionStore) Get(idStr string) (*converter.Pipeline, bool) {
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pipelines[id]
	return p, ok
}

// Delete removes a session and cancels anything it still has running
func (s *SessionStore) Delete(idStr string) bool {
	id, err := ulid.Parse(idStr)
	if err != nil {
		return false
	}
	s.mu.Lock()
	p, ok := s.pipelines[id]
	delete(s.pipelines, id)
	s.mu.Unlock()
	if ok {
		p.Close()
	}
	return ok
}

// Len is the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pipelines)
}

// Sweep evicts sessions that have been idle for longer than ttl and returns how many were removed
func (s *SessionStore) Sweep(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	expired := lo.PickBy(s.pipelines, func(_ ulid.ULID, p *converter.Pipeline) bool {
		return now.Sub(p.LastUsed()) > ttl
	})
	for id := range expired {
		delete(s.pipelines, id)
	}
	s.mu.Unlock()

	for _, p := range expired {
		p.Close()
	}
	return len(expired)
}
