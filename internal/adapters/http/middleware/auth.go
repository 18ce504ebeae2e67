package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

// SessionCookie is the admin session cookie name.
const SessionCookie = "weekuren_session"

// sessionTTL bounds how long an admin login stays valid.
const sessionTTL = 24 * time.Hour

// Session represents one authenticated admin login.
type Session struct {
	CreatedAt time.Time
}

// SessionStore is an in-memory session store. The app has a single admin
// role, so sessions carry no identity beyond their validity.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Create stores a new session and returns the token.
func (ss *SessionStore) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{CreatedAt: time.Now()}
	return token, nil
}

// Valid reports whether token belongs to a live session.
// POST: expired sessions are evicted
func (ss *SessionStore) Valid(token string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	if !ok {
		return false
	}
	if time.Since(s.CreatedAt) > sessionTTL {
		delete(ss.sessions, token)
		return false
	}
	return true
}

// Delete removes a session.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// RequireSession wraps a handler, rejecting requests without a live admin
// session cookie.
func RequireSession(ss *SessionStore, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || !ss.Valid(cookie.Value) {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// generateToken returns 32 bytes of hex-encoded randomness.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
