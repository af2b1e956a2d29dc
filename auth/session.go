package auth

import (
	"log/slog"
	"sync"

	"chatkit/errors"
)

// Session is the in-memory session holder backing contract.Session. One
// Session per signed-in client; there is deliberately no package-level
// "current user" — every operation that needs an identity takes it as an
// argument or asks a Session it was handed.
type Session struct {
	issuer *TokenIssuer
	log    *slog.Logger

	mu    sync.RWMutex
	token string
}

func NewSession(issuer *TokenIssuer, log *slog.Logger) *Session {
	return &Session{issuer: issuer, log: log}
}

// Accept installs a freshly issued token as the current session.
func (s *Session) Accept(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// CurrentUserID resolves the signed-in user from the held token. A
// missing, expired or tampered token reads as "nobody signed in".
func (s *Session) CurrentUserID() (string, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return "", false
	}
	claims, err := s.issuer.Validate(token)
	if err != nil {
		s.log.Debug("session token rejected", "error", err)
		return "", false
	}
	return claims.UserID, true
}

// SignOut drops the session. Signing out without a session is an error
// the caller can surface, matching the rest of the weak conditions.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return errors.ErrNoCurrentUser
	}
	s.token = ""
	s.log.Debug("user signed out")
	return nil
}
