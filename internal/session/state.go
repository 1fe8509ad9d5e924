// Package session keeps the typed per-session application state: the draft,
// the selected month, the viewer and one-shot banners.
package session

import (
	"errors"
	"sync"
	"time"

	"diary/internal/composer"
	"diary/internal/viewer"
)

// ErrUnknownSession is returned for ids that were never opened, were dropped
// on logout or sat idle past the registry's limit.
var ErrUnknownSession = errors.New("unknown session")

type State struct {
	Draft         composer.Draft
	SelectedMonth string
	Viewer        viewer.Viewer

	// Notice and Error are shown once by the next page render.
	Notice string
	Error  string
}

// TakeBanners returns the pending banners and clears them.
func (s *State) TakeBanners() (notice, errMsg string) {
	notice, errMsg = s.Notice, s.Error
	s.Notice, s.Error = "", ""
	return notice, errMsg
}

type slot struct {
	mu       sync.Mutex
	state    State
	lastUsed time.Time
}

// Registry maps session ids to their state. Actions on one session are
// serialized; different sessions proceed independently.
//
// Slots exist only between Open and Drop. A slot idle for longer than the
// registry's idle limit is evicted on the next access.
type Registry struct {
	mu        sync.Mutex
	slots     map[string]*slot
	idle      time.Duration
	lastSweep time.Time

	Now func() time.Time
}

// NewRegistry returns a registry evicting slots idle for longer than idle.
// Zero disables eviction.
func NewRegistry(idle time.Duration) *Registry {
	return &Registry{slots: make(map[string]*slot), idle: idle, Now: time.Now}
}

func (r *Registry) expired(s *slot, now time.Time) bool {
	return r.idle > 0 && now.Sub(s.lastUsed) > r.idle
}

// sweep drops every expired slot. At most one full pass runs per idle period.
// Callers hold r.mu.
func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 || now.Sub(r.lastSweep) < r.idle {
		return
	}
	r.lastSweep = now
	for id, s := range r.slots {
		if r.expired(s, now) {
			delete(r.slots, id)
		}
	}
}

// Open starts a fresh state for session id.
func (r *Registry) Open(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now()
	r.sweep(now)
	r.slots[id] = &slot{lastUsed: now}
}

// lookup returns the live slot for id and marks it used.
func (r *Registry) lookup(id string) (*slot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.Now()
	r.sweep(now)
	s, ok := r.slots[id]
	if !ok {
		return nil, false
	}
	if r.expired(s, now) {
		delete(r.slots, id)
		return nil, false
	}
	s.lastUsed = now
	return s, true
}

// Active reports whether session id is open and not expired.
func (r *Registry) Active(id string) bool {
	_, ok := r.lookup(id)
	return ok
}

// With runs fn with exclusive access to the state of session id.
func (r *Registry) With(id string, fn func(*State) error) error {
	s, ok := r.lookup(id)
	if !ok {
		return ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.slots, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
