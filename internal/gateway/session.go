package gateway

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds the bearer token for outgoing backend calls together with the
// service credentials used to obtain a fresh one. Set at login, cleared at
// logout, read by every request.
type Session struct {
	mu       sync.RWMutex
	token    string
	userName string
	password string
}

func NewSession(userName, password string) *Session {
	return &Session{userName: userName, password: password}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func (s *Session) Credentials() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName, s.password
}

// Expired peeks at the token's exp claim without verifying the signature; the
// backend owns the signing key and remains the authority. Tokens with no exp
// claim or ones we cannot parse are treated as live and left for the backend
// to reject.
func (s *Session) Expired() bool {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return true
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
