// Package session persists the two-token session state for the ourtime
// client. The token pair is the only client-side persistence besides
// configuration: access and refresh tokens as strings, read before every
// request and written only at login/signup/logout (or the global 401 path).
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ourtime/internal/logging"
)

const tokensFile = "tokens.json"

// tokenPair is the on-disk shape.
type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Store holds the persisted token pair. It satisfies the HTTP adapter's
// TokenSource. The mutex covers concurrent request goroutines spawned by
// the event loop; the file itself is only touched on login, logout, and 401.
type Store struct {
	mu   sync.RWMutex
	path string
	pair tokenPair
}

// Open loads the token pair from dir (the client config directory). A
// missing file means a logged-out session, not an error.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, tokensFile)}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read token store: %w", err)
	}
	if err := json.Unmarshal(data, &s.pair); err != nil {
		// A corrupt token file is treated as logged out rather than fatal.
		logging.SessionError("corrupt token store, discarding: %v", err)
		s.pair = tokenPair{}
	}
	return s, nil
}

// AccessToken returns the current access token, empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.AccessToken
}

// RefreshToken returns the current refresh token.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair.RefreshToken
}

// LoggedIn reports whether an access token is present.
func (s *Store) LoggedIn() bool {
	return s.AccessToken() != ""
}

// SetPair stores and persists a new token pair (login/signup/refresh).
func (s *Store) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = tokenPair{AccessToken: access, RefreshToken: refresh}
	return s.persist()
}

// Clear drops both tokens and removes the persisted file. Called at logout
// and by the adapter's 401 path.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = tokenPair{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token store: %w", err)
	}
	return nil
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.Marshal(s.pair)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}
	return nil
}

// Info is what the client can read out of its own access token without
// verifying it: enough for a status line, nothing more.
type Info struct {
	Subject   string
	ExpiresAt time.Time
}

// Info parses the access token's registered claims without signature
// verification (the client has no key and never needs one). An unparsable
// token yields ok=false; the session still works, it is just opaque.
func (s *Store) Info() (Info, bool) {
	tok := s.AccessToken()
	if tok == "" {
		return Info{}, false
	}
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(tok, &claims); err != nil {
		return Info{}, false
	}
	info := Info{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
