package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FlowFactory builds the flow of a new donor session around its notice board.
type FlowFactory func(notices Notifier) *Flow

type Session struct {
	ID      string
	Flow    *Flow
	Notices *NoticeBoard

	lastSeen time.Time
}

// Sessions holds one Flow per donor session.
type Sessions struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	factory     FlowFactory
	now         func() time.Time
	maxInFlight time.Duration
}

type SessionsOption func(*Sessions)

// WithInFlightLimit lets Sweep drop sessions whose attempt has been in flight
// and untouched for longer than d. Zero keeps them forever.
func WithInFlightLimit(d time.Duration) SessionsOption {
	return func(s *Sessions) { s.maxInFlight = d }
}

// WithSessionClock replaces time.Now for idle tracking.
func WithSessionClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) { s.now = now }
}

func NewSessions(factory FlowFactory, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		sessions: make(map[string]*Session),
		factory:  factory,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a known session and refreshes its idle timer.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// Open returns the session for id, creating a new one under a fresh id when
// id is empty or unknown.
func (s *Sessions) Open(id string) *Session {
	if sess, ok := s.Get(id); ok {
		return sess
	}

	notices := NewNoticeBoard()
	sess := &Session{
		ID:       uuid.NewString(),
		Flow:     s.factory(notices),
		Notices:  notices,
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many were
// removed. Sessions with an attempt in flight are kept until they pass the
// in-flight limit.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.After(now.Add(-maxIdle)) {
			continue
		}
		if sess.Flow.Current().State.InFlight() &&
			(s.maxInFlight <= 0 || sess.lastSeen.After(now.Add(-s.maxInFlight))) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}
