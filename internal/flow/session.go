package flow

import (
	"context"
	"sync"
	"time"

	"github.com/m3rciful/leadbot/core/logger"
	"log/slog"
)

// session is one user's dialogue progress. Events for the same user are
// serialized by mu; distinct users proceed in parallel.
type session struct {
	mu       sync.Mutex
	step     int
	draft    map[Field]string
	lastSeen time.Time
}

// Sessions is an in-memory registry of active dialogues keyed by user ID.
type Sessions struct {
	mu       sync.RWMutex
	active   map[int64]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions creates a registry. A zero ttl disables idle eviction.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		active: make(map[int64]*session),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Start creates a fresh session for the user, replacing any previous one.
func (s *Sessions) Start(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &session{
		draft:    make(map[Field]string),
		lastSeen: s.now(),
	}
	s.active[userID] = sess
	return sess
}

// Get returns the user's session if one exists.
func (s *Sessions) Get(userID int64) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.active[userID]
	return sess, ok
}

// Drop removes the user's session, but only while it is still the given
// one. A commit finishing after the user already restarted must not take
// the replacement session down with it.
func (s *Sessions) Drop(userID int64, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.active[userID]; ok && cur == sess {
		delete(s.active, userID)
	}
}

// InProgress reports whether the user has an active dialogue.
func (s *Sessions) InProgress(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.active[userID]
	return ok
}

// Len returns the number of active sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}

// Evict removes sessions idle longer than the ttl and returns how many
// were removed. No-op when eviction is disabled.
//
// The registry lock is never held while a session lock is taken: handlers
// hold their session's lock for a whole update and end by calling Drop,
// which needs the registry lock. Sessions are snapshotted first, probed
// with TryLock (a busy session has a handler inside it and is not idle),
// and deleted one by one with a pointer re-check.
func (s *Sessions) Evict(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.RLock()
	snapshot := make(map[int64]*session, len(s.active))
	for userID, sess := range s.active {
		snapshot[userID] = sess
	}
	s.mu.RUnlock()

	evicted := 0
	for userID, sess := range snapshot {
		if !sess.mu.TryLock() {
			continue
		}
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle <= s.ttl {
			continue
		}

		s.mu.Lock()
		if cur, ok := s.active[userID]; ok && cur == sess {
			delete(s.active, userID)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}

// Janitor periodically evicts idle sessions until ctx is done.
// Returns immediately when eviction is disabled.
func (s *Sessions) Janitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Evict(now); n > 0 {
				logger.FLOW.Info("sessions evicted",
					slog.String("event", "session.evict"),
					slog.Int("evicted", n),
					slog.Int("sessions", s.Len()),
				)
			}
		}
	}
}
