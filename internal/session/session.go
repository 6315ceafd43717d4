package session

import (
	"context"

	"marketxi/internal/api"
	"marketxi/internal/common/logger"
)

// Session is handed to every view instead of reading token state ambiently.
type Session struct {
	store Store
	user  *api.User
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Token implements api.TokenSource.
func (s *Session) Token() (string, bool) {
	return s.store.Token()
}

func (s *Session) SetToken(token string) error {
	return s.store.SetToken(token)
}

// User returns the loaded identity, or nil when signed out.
func (s *Session) User() *api.User {
	return s.user
}

func (s *Session) SignedIn() bool {
	return s.user != nil
}

func (s *Session) IsTrader() bool {
	return s.user != nil && (s.user.Role == api.RoleTrader || s.user.Role == api.RoleAdmin)
}

// Reload fetches the current identity. Without a stored token the session
// becomes absent. A failing who-am-I call also leaves the session absent
// but does not clear the token; the token may still be valid later.
func (s *Session) Reload(ctx context.Context, client *api.Client) {
	if _, ok := s.store.Token(); !ok {
		s.user = nil
		return
	}
	user, err := client.Me(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("identity fetch failed")
		s.user = nil
		return
	}
	s.user = user
}

// Logout clears the token and the loaded identity.
func (s *Session) Logout() error {
	s.user = nil
	return s.store.Clear()
}
