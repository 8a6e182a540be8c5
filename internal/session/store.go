// Package session holds OAuth tokens for the two external identities behind
// a narrow in-memory store keyed by a cookie value. Nothing is persisted;
// restarting the server signs everyone out.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// CookieName is the HTTP cookie carrying the session id.
const CookieName = "s2y_session"

// DefaultTTL is how long an idle session survives before pruning.
const DefaultTTL = 24 * time.Hour

// Session is one browser's signed-in state.
type Session struct {
	ID string

	SpotifyToken *oauth2.Token
	SpotifyUser  string

	GoogleToken *oauth2.Token
	GoogleUser  string

	touched time.Time
}

// Store is an in-memory session registry. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a store. ttl falls back to DefaultTTL when non-positive.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// New creates and registers a fresh session.
func (s *Store) New() *Session {
	sess := &Session{
		ID:      uuid.New().String(),
		touched: time.Now(),
	}

	s.mu.Lock()
	s.prune()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session for id, or nil when unknown or expired.
func (s *Store) Get(id string) *Session {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Since(sess.touched) > s.ttl {
		delete(s.sessions, id)
		return nil
	}
	sess.touched = time.Now()
	return sess
}

// GetOrNew returns the session for id, creating one when absent.
func (s *Store) GetOrNew(id string) *Session {
	if sess := s.Get(id); sess != nil {
		return sess
	}
	return s.New()
}

// Update applies fn to the session under the store lock.
func (s *Store) Update(id string, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		fn(sess)
		sess.touched = time.Now()
	}
}

// Delete removes a session, signing its browser out of both services.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// prune drops expired sessions. Caller holds the write lock.
func (s *Store) prune() {
	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// SpotifyAccessToken returns the user-delegated Spotify token, or "" when the
// browser has not signed in to Spotify.
func (sess *Session) SpotifyAccessToken() string {
	if sess == nil || sess.SpotifyToken == nil {
		return ""
	}
	return sess.SpotifyToken.AccessToken
}

// YouTubeAccessToken returns the Google token used for the YouTube Data API,
// or "" when absent.
func (sess *Session) YouTubeAccessToken() string {
	if sess == nil || sess.GoogleToken == nil {
		return ""
	}
	return sess.GoogleToken.AccessToken
}
