package ui

import (
	"context"
	"fmt"

	"marketxi/internal/api"
)

// FeedView lists posts in server order.
type FeedView struct {
	client *api.Client

	Posts []api.Post
	Err   string
}

func NewFeedView(client *api.Client) *FeedView {
	return &FeedView{client: client}
}

// Load issues one fetch. On failure the error text is replaced but
// previously loaded posts stay rendered.
func (v *FeedView) Load(ctx context.Context) {
	v.Err = ""
	posts, err := v.client.Feed(ctx)
	if err != nil {
		v.Err = err.Error()
		return
	}
	v.Posts = posts
}

func (v *FeedView) Render(t *Term) {
	t.Println("== Feed ==")
	if v.Err != "" {
		t.Printf("error: %s\n", v.Err)
	}
	if len(v.Posts) == 0 {
		t.Println("(no posts)")
		return
	}
	for _, p := range v.Posts {
		name := "Trader"
		if p.TraderDisplayName != nil && *p.TraderDisplayName != "" {
			name = *p.TraderDisplayName
		}
		tier := "free"
		if p.IsPremium {
			tier = "premium"
		}
		t.Printf("%s . %s\n", name, p.CreatedAt.Local().Format("2 Jan 2006 15:04"))
		t.Printf("  %s  [%s . %s]\n", p.Title, p.Type, tier)
		if p.Locked {
			t.Printf("  (locked) %s\n", p.Content)
		} else {
			t.Printf("  %s\n", p.Content)
		}
		for _, c := range p.Cards {
			t.Printf("  card %s (%s)  Buy: %s-%s . Sell: %s-%s\n",
				c.PlayerID, c.Platform,
				fmtPrice(c.BuyPriceMin), fmtPrice(c.BuyPriceMax),
				fmtPrice(c.SellPriceMin), fmtPrice(c.SellPriceMax))
		}
	}
}

func fmtPrice(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}
