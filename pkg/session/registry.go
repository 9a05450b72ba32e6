package session

import "sync"

// Registry is the single synchronized table mapping call IDs to
// active sessions. It is the only structure shared across connection
// goroutines.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Put registers a session, replacing any prior session for the same
// call ID. The prior session, if any, is returned so the caller can
// close it: a duplicate connection means the provider retried and the
// old transport is dead.
func (r *Registry) Put(s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	prior := r.sessions[s.CallID()]
	r.sessions[s.CallID()] = s
	return prior
}

// Get returns the session for a call ID, or nil.
func (r *Registry) Get(callID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[callID]
}

// Remove deletes the entry for callID only if it still maps to s.
// A connection torn down after being replaced must not evict its
// replacement.
func (r *Registry) Remove(callID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[callID] == s {
		delete(r.sessions, callID)
	}
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
