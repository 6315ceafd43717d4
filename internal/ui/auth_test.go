package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketxi/internal/api"
	"marketxi/internal/session"
)

func TestToggleSwitchesMode(t *testing.T) {
	view := NewAuthView(nil, nil)
	assert.Equal(t, ModeLogin, view.Mode)
	view.Toggle()
	assert.Equal(t, ModeRegister, view.Mode)
	view.Toggle()
	assert.Equal(t, ModeLogin, view.Mode)
}

func TestRegisterThenLoginStoresResponseToken(t *testing.T) {
	var registers, logins int
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		registers++
		w.Write([]byte(`{"id":"u1","email":"a@x.com","username":"bob","role":"user"}`))
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins++
		w.Write([]byte(`{"access_token":"T","token_type":"bearer"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sess := session.New(&session.MemStore{})
	view := NewAuthView(api.NewClient(srv.URL, sess), sess)
	view.Toggle() // register mode

	ok := view.Submit(context.Background(), "a@x.com", "bob", "password1")
	require.True(t, ok)
	assert.Empty(t, view.Err)
	assert.Equal(t, 1, registers)
	assert.Equal(t, 1, logins)

	token, stored := sess.Token()
	require.True(t, stored)
	assert.Equal(t, "T", token, "stored token equals the login response's access token")
}

func TestRegisterFailureAbortsBeforeLogin(t *testing.T) {
	var logins int
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"Email or username already in use"}`))
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sess := session.New(&session.MemStore{})
	view := NewAuthView(api.NewClient(srv.URL, sess), sess)
	view.Toggle()

	ok := view.Submit(context.Background(), "a@x.com", "bob", "password1")
	assert.False(t, ok)
	assert.Equal(t, "Email or username already in use", view.Err)
	assert.Zero(t, logins, "login must not be attempted after a failed registration")

	_, stored := sess.Token()
	assert.False(t, stored)
}

func TestLoginFailureSurfacesDetail(t *testing.T) {
	e := newEnv(t)
	e.signUpAndIn(t, "a@x.com", "bob")
	require.NoError(t, e.sess.Logout())

	view := NewAuthView(e.client, e.sess)
	ok := view.Submit(context.Background(), "a@x.com", "", "wrong-password")
	assert.False(t, ok)
	assert.Equal(t, "Invalid credentials", view.Err)

	_, stored := e.sess.Token()
	assert.False(t, stored)
}

func TestFullAuthFlowAgainstFake(t *testing.T) {
	e := newEnv(t)

	view := NewAuthView(e.client, e.sess)
	view.Toggle()
	ok := view.Submit(context.Background(), "a@x.com", "bob", testPassword)
	require.True(t, ok)

	e.sess.Reload(context.Background(), e.client)
	require.True(t, e.sess.SignedIn())
	assert.Equal(t, "bob", e.sess.User().Username)
	assert.Equal(t, api.RoleUser, e.sess.User().Role)
}
