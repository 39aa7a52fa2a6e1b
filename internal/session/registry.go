package session

import (
	"sync"
	"time"

	"github.com/sergiomvp10/tutti-services/internal/cart"
)

// Registry owns the sessions of the process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry whose sessions expire after ttl without
// activity. A zero ttl disables expiry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl, now: time.Now}
}

// Open starts a new session with an empty cart.
func (r *Registry) Open() *Session {
	s := &Session{ID: newID(), Cart: cart.New(), lastSeen: r.now()}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns a live session and marks it active.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.expired(s, now) {
		r.Close(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Resume returns the session id or opens a new one when it is unknown.
func (r *Registry) Resume(id string) (s *Session, created bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.Open(), true
}

// Close tears the session down, dropping its cart.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep closes every idle session and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.idleSince()) > r.ttl
}
