package ui

import (
	"context"
	"fmt"
	"strconv"

	"marketxi/internal/api"
)

const defaultPriceCents = 999

// PostDraft is the composer's local state.
type PostDraft struct {
	Type      api.PostType
	Title     string
	Content   string
	IsPremium bool
	Cards     []api.CardIn
}

func emptyPostDraft() PostDraft {
	return PostDraft{Type: api.PostTrade, IsPremium: true, Cards: []api.CardIn{}}
}

// StudioView holds two independent forms, a trader profile and a post
// composer, sharing one error/success message pair.
type StudioView struct {
	client *api.Client

	Profile api.TraderProfileUpsert
	Draft   PostDraft
	Err     string
	OK      string
}

func NewStudioView(client *api.Client) *StudioView {
	return &StudioView{
		client:  client,
		Profile: api.TraderProfileUpsert{SubscriptionPriceCents: defaultPriceCents},
		Draft:   emptyPostDraft(),
	}
}

// SetPrice coerces the price input; empty or non-numeric becomes 0.
func (v *StudioView) SetPrice(value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		n = 0
	}
	v.Profile.SubscriptionPriceCents = n
}

// SaveProfile upserts the profile draft. The draft is not refreshed from
// the server response.
func (v *StudioView) SaveProfile(ctx context.Context) {
	v.Err, v.OK = "", ""
	if _, err := v.client.UpsertProfile(ctx, v.Profile); err != nil {
		v.Err = err.Error()
		return
	}
	v.OK = "Profile saved."
}

// AddCard appends one blank card to the draft.
func (v *StudioView) AddCard() {
	v.Draft.Cards = append(v.Draft.Cards, api.CardIn{Platform: api.PlatformPS})
}

// UpdateCard replaces one field of the card at index i, leaving all other
// cards and fields untouched.
func (v *StudioView) UpdateCard(i int, field, value string) error {
	if i < 0 || i >= len(v.Draft.Cards) {
		return fmt.Errorf("no card at index %d", i)
	}
	card := &v.Draft.Cards[i]
	switch field {
	case "player_id":
		card.PlayerID = value
	case "platform":
		switch api.Platform(value) {
		case api.PlatformPS, api.PlatformXbox, api.PlatformPC:
			card.Platform = api.Platform(value)
		default:
			return fmt.Errorf("unknown platform %q", value)
		}
	case "buy_price_min":
		card.BuyPriceMin = parsePrice(value)
	case "buy_price_max":
		card.BuyPriceMax = parsePrice(value)
	case "sell_price_min":
		card.SellPriceMin = parsePrice(value)
	case "sell_price_max":
		card.SellPriceMax = parsePrice(value)
	default:
		return fmt.Errorf("unknown card field %q", field)
	}
	return nil
}

// parsePrice turns an input into an optional bound; empty and non-numeric
// inputs both clear the bound.
func parsePrice(value string) *int {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// CanPublish gates publishing on a non-empty title and content.
func (v *StudioView) CanPublish() bool {
	return v.Draft.Title != "" && v.Draft.Content != ""
}

// Publish sends the draft. On success the composer resets to its empty
// defaults; on failure the draft is preserved so the user can retry.
func (v *StudioView) Publish(ctx context.Context) {
	v.Err, v.OK = "", ""
	_, err := v.client.CreatePost(ctx, api.PostCreate{
		Type:      v.Draft.Type,
		Title:     v.Draft.Title,
		Content:   v.Draft.Content,
		IsPremium: v.Draft.IsPremium,
		Cards:     v.Draft.Cards,
	})
	if err != nil {
		v.Err = err.Error()
		return
	}
	v.OK = "Post published."
	v.Draft = emptyPostDraft()
}

func (v *StudioView) Render(t *Term) {
	t.Println("== Trader Studio ==")
	if v.Err != "" {
		t.Printf("error: %s\n", v.Err)
	}
	if v.OK != "" {
		t.Println(v.OK)
	}

	t.Println("-- Profile --")
	t.Printf("  display_name: %s\n", v.Profile.DisplayName)
	t.Printf("  bio: %s\n", v.Profile.Bio)
	t.Printf("  banner_url: %s\n", v.Profile.BannerURL)
	t.Printf("  avatar_url: %s\n", v.Profile.AvatarURL)
	t.Printf("  subscription_price_cents: %d\n", v.Profile.SubscriptionPriceCents)

	tier := "free"
	if v.Draft.IsPremium {
		tier = "premium"
	}
	t.Println("-- New post --")
	t.Printf("  [%s . %s] %s\n", v.Draft.Type, tier, v.Draft.Title)
	t.Printf("  %s\n", v.Draft.Content)
	for i, c := range v.Draft.Cards {
		t.Printf("  card %d: %s (%s)  Buy: %s-%s . Sell: %s-%s\n",
			i, c.PlayerID, c.Platform,
			fmtPrice(c.BuyPriceMin), fmtPrice(c.BuyPriceMax),
			fmtPrice(c.SellPriceMin), fmtPrice(c.SellPriceMax))
	}
}
