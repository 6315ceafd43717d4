package ui

import (
	"context"

	"marketxi/internal/api"
)

// TradersView is the trader directory, with detail and subscribe actions.
type TradersView struct {
	client *api.Client

	Traders []api.TraderProfile
	Err     string
	OK      string
}

func NewTradersView(client *api.Client) *TradersView {
	return &TradersView{client: client}
}

func (v *TradersView) Load(ctx context.Context) {
	v.Err = ""
	traders, err := v.client.ListTraders(ctx)
	if err != nil {
		v.Err = err.Error()
		return
	}
	v.Traders = traders
}

func (v *TradersView) Show(ctx context.Context, traderID string) *api.TraderProfile {
	v.Err, v.OK = "", ""
	trader, err := v.client.GetTrader(ctx, traderID)
	if err != nil {
		v.Err = err.Error()
		return nil
	}
	return trader
}

func (v *TradersView) Subscribe(ctx context.Context, traderID string) {
	v.Err, v.OK = "", ""
	if _, err := v.client.Subscribe(ctx, traderID); err != nil {
		v.Err = err.Error()
		return
	}
	v.OK = "Subscribed."
}

func (v *TradersView) Render(t *Term) {
	t.Println("== Traders ==")
	if v.Err != "" {
		t.Printf("error: %s\n", v.Err)
	}
	if v.OK != "" {
		t.Println(v.OK)
	}
	if len(v.Traders) == 0 {
		t.Println("(no traders)")
		return
	}
	for _, tr := range v.Traders {
		badge := ""
		if tr.IsVerified {
			badge = " [verified]"
		}
		bio := tr.Bio
		if bio == "" {
			bio = "-"
		}
		t.Printf("%s%s (id %s)\n", tr.DisplayName, badge, tr.UserID)
		t.Printf("  %s\n", bio)
		t.Printf("  From £%.2f/mo\n", float64(tr.SubscriptionPriceCents)/100)
	}
}

func RenderTrader(t *Term, tr *api.TraderProfile) {
	badge := ""
	if tr.IsVerified {
		badge = " [verified]"
	}
	t.Printf("%s%s\n", tr.DisplayName, badge)
	if tr.Bio != "" {
		t.Printf("  %s\n", tr.Bio)
	}
	t.Printf("  £%.2f/mo, since %s\n", float64(tr.SubscriptionPriceCents)/100, tr.CreatedAt.Local().Format("2 Jan 2006"))
}
