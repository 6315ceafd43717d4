package ui

import (
	"context"

	"marketxi/internal/api"
	"marketxi/internal/session"
)

const becameTraderMsg = "You're now a trader. Open Studio to create your profile + posts."

// SettingsView shows the account role, the one-way trader upgrade, and the
// viewer's subscriptions.
type SettingsView struct {
	client  *api.Client
	session *session.Session

	Subs []api.Subscription
	Err  string
	OK   string
}

func NewSettingsView(client *api.Client, sess *session.Session) *SettingsView {
	return &SettingsView{client: client, session: sess}
}

// BecomeTrader upgrades the account. There is no client-side guard against
// repeated calls; the upgrade is one-way on the server. Success reloads the
// session so role-gated navigation updates.
func (v *SettingsView) BecomeTrader(ctx context.Context) {
	v.Err, v.OK = "", ""
	if _, err := v.client.BecomeTrader(ctx); err != nil {
		v.Err = err.Error()
		return
	}
	v.session.Reload(ctx, v.client)
	v.OK = becameTraderMsg
}

func (v *SettingsView) LoadSubscriptions(ctx context.Context) {
	v.Err, v.OK = "", ""
	subs, err := v.client.MySubscriptions(ctx)
	if err != nil {
		v.Err = err.Error()
		return
	}
	v.Subs = subs
}

func (v *SettingsView) Cancel(ctx context.Context, traderID string) {
	v.Err, v.OK = "", ""
	if err := v.client.CancelSubscription(ctx, traderID); err != nil {
		v.Err = err.Error()
		return
	}
	v.OK = "Subscription canceled."
}

func (v *SettingsView) Render(t *Term) {
	t.Println("== Settings ==")
	if v.Err != "" {
		t.Printf("error: %s\n", v.Err)
	}
	if v.OK != "" {
		t.Println(v.OK)
	}

	role := api.Role("")
	if u := v.session.User(); u != nil {
		role = u.Role
	}
	t.Printf("Role: %s\n", role)
	if role == api.RoleUser {
		t.Println("Type 'upgrade' to become a trader.")
	}

	if len(v.Subs) > 0 {
		t.Println("-- Subscriptions --")
		for _, s := range v.Subs {
			t.Printf("  trader %s  %s  since %s\n", s.TraderID, s.Status, s.StartedAt.Local().Format("2 Jan 2006"))
		}
	}
}
