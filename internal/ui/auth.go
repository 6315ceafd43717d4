package ui

import (
	"context"

	"marketxi/internal/api"
	"marketxi/internal/session"
)

const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// AuthView is the unauthenticated landing form.
type AuthView struct {
	client  *api.Client
	session *session.Session

	Mode string
	Err  string
}

func NewAuthView(client *api.Client, sess *session.Session) *AuthView {
	return &AuthView{client: client, session: sess, Mode: ModeLogin}
}

func (v *AuthView) Toggle() {
	if v.Mode == ModeLogin {
		v.Mode = ModeRegister
	} else {
		v.Mode = ModeLogin
	}
}

// Submit runs the active mode. Register mode registers first and then logs
// in with the same credentials; a registration failure aborts before login.
// On login success the token is stored and true is returned so the shell
// can reload the session.
func (v *AuthView) Submit(ctx context.Context, email, username, password string) bool {
	v.Err = ""

	if v.Mode == ModeRegister {
		if _, err := v.client.Register(ctx, api.RegisterIn{
			Email:    email,
			Username: username,
			Password: password,
		}); err != nil {
			v.Err = err.Error()
			return false
		}
	}

	token, err := v.client.Login(ctx, api.LoginIn{Email: email, Password: password})
	if err != nil {
		v.Err = err.Error()
		return false
	}
	if err := v.session.SetToken(token.AccessToken); err != nil {
		v.Err = err.Error()
		return false
	}
	return true
}

func (v *AuthView) Render(t *Term) {
	if v.Mode == ModeLogin {
		t.Println("-- Login --")
	} else {
		t.Println("-- Create account --")
	}
	if v.Err != "" {
		t.Printf("error: %s\n", v.Err)
	}
}
