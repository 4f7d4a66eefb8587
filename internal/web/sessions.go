package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"rcpro-configurator/internal/configurator"
)

const sessionCookie = "rcpro_session"

// DefaultMaxSessions bounds the session table when no limit is configured.
const DefaultMaxSessions = 10000

type session struct {
	controller *configurator.Controller
	lastSeen   time.Time
}

// Sessions gives every browser its own configurator controller, keyed by a
// UUID cookie. Sessions idle for longer than ttl are dropped, and once max
// sessions exist the least recently seen one makes room for a new one.
//
// A new session's controller is idle: handlers decide when it sends its
// first quote request.
type Sessions struct {
	newController func() *configurator.Controller
	ttl           time.Duration
	max           int
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessions returns an empty session table. A zero ttl keeps sessions
// forever; max <= 0 means DefaultMaxSessions.
func NewSessions(newController func() *configurator.Controller, ttl time.Duration, max int) *Sessions {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Sessions{
		newController: newController,
		ttl:           ttl,
		max:           max,
		now:           time.Now,
		sessions:      make(map[string]*session),
	}
}

// Controller returns the caller's controller. When the cookie is missing or
// unknown it creates a session, sets the cookie and reports created.
func (s *Sessions) Controller(w http.ResponseWriter, r *http.Request) (ctrl *configurator.Controller, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.lastSeen = now
			return sess.controller, false
		}
	}

	for len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}

	id := uuid.NewString()
	ctrl = s.newController()
	s.sessions[id] = &session{controller: ctrl, lastSeen: now}
	sessionsActive.Set(float64(len(s.sessions)))

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return ctrl, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
	sessionsActive.Set(float64(len(s.sessions)))
}

func (s *Sessions) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}
