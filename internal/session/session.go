// Package session implements the in-memory session table keyed by opaque
// ID, with lazy expiry sweep (spec.md §4.7). Grounded on the teacher's
// document.Store (a thread-safe map the handler package treats as shared
// server state) and on the original's http/sessions.rs::SessionStore.
package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akhaled01/kang/internal/httpmsg"
)

// Session is one client's server-side state.
type Session struct {
	ID           string
	Data         map[string]string
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Store is a thread-safe session table. One Store exists per virtual host
// (spec.md §4.8: "the session store is per-virtual-host"); since each
// vhost's event loop is already single-threaded, the mutex here exists
// only to make Store safe to share with any future caller outside that
// loop (e.g. tests), not because the event loop itself needs it.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	timeout  time.Duration
	cookiePath string
	cookieSecure bool
	cookieHTTPOnly bool
}

// New builds a Store. timeoutMinutes <= 0 is treated as the documented
// default of 60 (spec.md §3 SessionConfig).
func New(timeoutMinutes int, cookiePath string, cookieSecure, cookieHTTPOnly bool) *Store {
	if timeoutMinutes <= 0 {
		timeoutMinutes = 60
	}
	if cookiePath == "" {
		cookiePath = "/"
	}
	return &Store{
		sessions:       make(map[string]*Session),
		timeout:        time.Duration(timeoutMinutes) * time.Minute,
		cookiePath:     cookiePath,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
	}
}

// GetOrCreate reads session_id from the request's Cookie header; if it
// names a live session, touches LastAccessed and returns it. Otherwise it
// creates and stores a fresh session with a new cryptographically random
// ID (spec.md §4.7).
func (s *Store) GetOrCreate(req *httpmsg.Request) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maybeSweepLocked() {
		// sweep already ran this call; fall through to lookup/create below.
	}

	if cookieHeader, ok := req.Header("Cookie"); ok {
		cookies := httpmsg.ParseCookieHeader(cookieHeader)
		if id, ok := cookies["session_id"]; ok {
			if sess, ok := s.sessions[id]; ok {
				sess.LastAccessed = time.Now()
				return sess
			}
		}
	}

	return s.createLocked()
}

func (s *Store) createLocked() *Session {
	id := uuid.NewString()
	now := time.Now()
	sess := &Session{
		ID:           id,
		Data:         make(map[string]string),
		CreatedAt:    now,
		LastAccessed: now,
	}
	s.sessions[id] = sess
	return sess
}

// AttachCookie appends a Set-Cookie header for sess to resp (spec.md
// §4.7).
func (s *Store) AttachCookie(resp *httpmsg.Response, sessionID string) {
	expires := time.Now().Add(s.timeout)
	cookie := httpmsg.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Expires:  &expires,
		Path:     s.cookiePath,
		Secure:   s.cookieSecure,
		HTTPOnly: s.cookieHTTPOnly,
	}
	resp.Headers.Set("Set-Cookie", cookie.String())
}

// sweepProbability is the ~1% chance (spec.md §4.7) that any given request
// triggers SweepExpired, amortizing the cost of scanning the whole table.
const sweepProbability = 0.01

// maybeSweepLocked probabilistically sweeps expired sessions; caller must
// hold s.mu.
func (s *Store) maybeSweepLocked() bool {
	if rand.Float64() >= sweepProbability {
		return false
	}
	s.sweepExpiredLocked()
	return true
}

// SweepExpired removes every session whose LastAccessed is older than the
// configured timeout. Exposed directly so callers (or tests) can force a
// sweep outside the probabilistic path.
func (s *Store) SweepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepExpiredLocked()
}

func (s *Store) sweepExpiredLocked() {
	cutoff := time.Now().Add(-s.timeout)
	for id, sess := range s.sessions {
		if sess.LastAccessed.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Len reports the number of live sessions — test/debug helper.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
