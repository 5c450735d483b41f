package flow

import (
	"testing"
	"time"
)

func TestSessionsEvict(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(30 * time.Minute)
	s.now = func() time.Time { return base }

	s.Start(1)
	s.now = func() time.Time { return base.Add(20 * time.Minute) }
	s.Start(2)

	// User 1 is 40 minutes idle, user 2 only 20.
	evicted := s.Evict(base.Add(40 * time.Minute))
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if s.InProgress(1) {
		t.Fatal("idle session must be gone")
	}
	if !s.InProgress(2) {
		t.Fatal("fresh session must survive")
	}
}

func TestSessionsEvictDisabled(t *testing.T) {
	s := NewSessions(0)
	s.Start(1)
	if evicted := s.Evict(time.Now().Add(24 * time.Hour)); evicted != 0 {
		t.Fatalf("ttl 0 must disable eviction, evicted %d", evicted)
	}
	if !s.InProgress(1) {
		t.Fatal("session must survive with eviction disabled")
	}
}

func TestSessionsDrop(t *testing.T) {
	s := NewSessions(time.Hour)
	sess := s.Start(5)
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}
	s.Drop(5, sess)
	if s.InProgress(5) {
		t.Fatal("dropped session must not be in progress")
	}
}

func TestDropRemovesOnlyMatchingSession(t *testing.T) {
	s := NewSessions(time.Hour)
	replaced := s.Start(1)
	replacement := s.Start(1)

	// A drop aimed at the replaced session must leave the fresh one alone.
	s.Drop(1, replaced)
	if !s.InProgress(1) {
		t.Fatal("replacement session must survive a drop of the replaced one")
	}

	s.Drop(1, replacement)
	if s.InProgress(1) {
		t.Fatal("matching drop must remove the session")
	}
}

func TestEvictSkipsBusySessions(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(30 * time.Minute)
	s.now = func() time.Time { return base }

	busy := s.Start(1)
	s.Start(2)

	// A locked session has a handler inside it right now; however old its
	// lastSeen is, it must not be evicted from under that handler.
	busy.mu.Lock()
	evicted := s.Evict(base.Add(2 * time.Hour))
	busy.mu.Unlock()

	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if !s.InProgress(1) {
		t.Fatal("busy session must survive eviction")
	}
	if s.InProgress(2) {
		t.Fatal("idle session must be evicted")
	}
}
