package ui

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"marketxi/internal/api"
	"marketxi/internal/apitest"
	"marketxi/internal/session"
)

const testPassword = "password1"

type env struct {
	srv    *httptest.Server
	sess   *session.Session
	client *api.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := httptest.NewServer(apitest.New().Handler())
	t.Cleanup(srv.Close)

	sess := session.New(&session.MemStore{})
	return &env{srv: srv, sess: sess, client: api.NewClient(srv.URL, sess)}
}

func (e *env) signUpAndIn(t *testing.T, email, username string) *api.User {
	t.Helper()
	ctx := context.Background()
	user, err := e.client.Register(ctx, api.RegisterIn{Email: email, Username: username, Password: testPassword})
	require.NoError(t, err)
	token, err := e.client.Login(ctx, api.LoginIn{Email: email, Password: testPassword})
	require.NoError(t, err)
	require.NoError(t, e.sess.SetToken(token.AccessToken))
	e.sess.Reload(ctx, e.client)
	require.True(t, e.sess.SignedIn())
	return user
}

func (e *env) makeTrader(t *testing.T, displayName string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.client.BecomeTrader(ctx)
	require.NoError(t, err)
	_, err = e.client.UpsertProfile(ctx, api.TraderProfileUpsert{
		DisplayName:            displayName,
		SubscriptionPriceCents: 999,
	})
	require.NoError(t, err)
	e.sess.Reload(ctx, e.client)
}

// secondUser joins the same fake backend with its own session.
func (e *env) secondUser(t *testing.T, email, username string) *env {
	t.Helper()
	sess := session.New(&session.MemStore{})
	other := &env{srv: e.srv, sess: sess, client: api.NewClient(e.srv.URL, sess)}
	other.signUpAndIn(t, email, username)
	return other
}
