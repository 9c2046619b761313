package apiclient

import "sync"

// Session holds the admin bearer token for calls made on a user's behalf.
// A 401 from the backend clears it and runs the expiry callbacks.
type Session struct {
	mu        sync.Mutex
	token     string
	onExpired []func()
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// OnExpired registers fn to run when the backend rejects the session.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// Clear drops the token without running expiry callbacks.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Session) expire() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.token = ""
	callbacks := append([]func(){}, s.onExpired...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
