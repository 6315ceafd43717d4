package api_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketxi/internal/api"
	"marketxi/internal/apitest"
)

type memTokens struct{ tok string }

func (m *memTokens) Token() (string, bool) { return m.tok, m.tok != "" }

func newEnv(t *testing.T) (*api.Client, *memTokens) {
	t.Helper()
	srv := httptest.NewServer(apitest.New().Handler())
	t.Cleanup(srv.Close)
	tokens := &memTokens{}
	return api.NewClient(srv.URL, tokens), tokens
}

func signUp(t *testing.T, client *api.Client, email, username, password string) *api.User {
	t.Helper()
	ctx := context.Background()
	user, err := client.Register(ctx, api.RegisterIn{Email: email, Username: username, Password: password})
	require.NoError(t, err)
	return user
}

func signIn(t *testing.T, client *api.Client, tokens *memTokens, email, password string) {
	t.Helper()
	out, err := client.Login(context.Background(), api.LoginIn{Email: email, Password: password})
	require.NoError(t, err)
	require.NotEmpty(t, out.AccessToken)
	tokens.tok = out.AccessToken
}

func TestRegisterLoginMe(t *testing.T) {
	client, tokens := newEnv(t)
	ctx := context.Background()

	signUp(t, client, "a@x.com", "bob", "password1")
	signIn(t, client, tokens, "a@x.com", "password1")

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", me.Username)
	assert.Equal(t, api.RoleUser, me.Role)
	assert.Equal(t, "a@x.com", me.Email)
}

func TestRegisterDuplicate(t *testing.T) {
	client, _ := newEnv(t)
	ctx := context.Background()

	signUp(t, client, "a@x.com", "bob", "password1")
	_, err := client.Register(ctx, api.RegisterIn{Email: "A@X.com", Username: "other", Password: "password2"})
	require.Error(t, err)
	assert.Equal(t, "Email or username already in use", err.Error())
}

func TestLoginBadPassword(t *testing.T) {
	client, _ := newEnv(t)

	signUp(t, client, "a@x.com", "bob", "password1")
	_, err := client.Login(context.Background(), api.LoginIn{Email: "a@x.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestBecomeTraderAndProfile(t *testing.T) {
	client, tokens := newEnv(t)
	ctx := context.Background()

	signUp(t, client, "a@x.com", "bob", "password1")
	signIn(t, client, tokens, "a@x.com", "password1")

	// A plain user may not publish a profile.
	_, err := client.UpsertProfile(ctx, api.TraderProfileUpsert{DisplayName: "Bob"})
	require.Error(t, err)
	assert.Equal(t, "Forbidden", err.Error())

	role, err := client.BecomeTrader(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.RoleTrader, role.Role)

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.RoleTrader, me.Role)

	profile, err := client.UpsertProfile(ctx, api.TraderProfileUpsert{
		DisplayName:            "Bob's Tips",
		Bio:                    "FC trading since forever",
		SubscriptionPriceCents: 499,
	})
	require.NoError(t, err)
	assert.Equal(t, me.ID, profile.UserID)
	assert.Equal(t, "Bob's Tips", profile.DisplayName)
	assert.Equal(t, 499, profile.SubscriptionPriceCents)
	assert.False(t, profile.IsVerified)

	got, err := client.GetTrader(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.DisplayName, got.DisplayName)

	listed, err := client.ListTraders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestTradersListVerifiedFirst(t *testing.T) {
	fake := apitest.New()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"early", "late"} {
		tokens := &memTokens{}
		client := api.NewClient(srv.URL, tokens)
		user := signUp(t, client, name+"@x.com", name, "password1")
		signIn(t, client, tokens, name+"@x.com", "password1")
		_, err := client.BecomeTrader(ctx)
		require.NoError(t, err)
		_, err = client.UpsertProfile(ctx, api.TraderProfileUpsert{DisplayName: name})
		require.NoError(t, err)
		ids = append(ids, user.ID)
	}
	fake.MarkVerified(ids[0])

	client := api.NewClient(srv.URL, &memTokens{})
	listed, err := client.ListTraders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "early", listed[0].DisplayName, "verified traders come first")
	assert.True(t, listed[0].IsVerified)
	assert.False(t, listed[1].IsVerified)
}

func TestGetTraderNotFound(t *testing.T) {
	client, _ := newEnv(t)

	_, err := client.GetTrader(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Trader not found", err.Error())

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 404, reqErr.Status)
}

func TestPremiumFeedLockCycle(t *testing.T) {
	srv := httptest.NewServer(apitest.New().Handler())
	defer srv.Close()
	ctx := context.Background()

	// Trader publishes one premium post with a card.
	traderTokens := &memTokens{}
	trader := api.NewClient(srv.URL, traderTokens)
	traderUser := signUp(t, trader, "t@x.com", "tipster", "password1")
	signIn(t, trader, traderTokens, "t@x.com", "password1")
	_, err := trader.BecomeTrader(ctx)
	require.NoError(t, err)
	_, err = trader.UpsertProfile(ctx, api.TraderProfileUpsert{DisplayName: "Tipster", SubscriptionPriceCents: 999})
	require.NoError(t, err)

	buyMin, buyMax := 10000, 12000
	post, err := trader.CreatePost(ctx, api.PostCreate{
		Type:      api.PostTrade,
		Title:     "Snipe this winger",
		Content:   "Buy before the weekend league.",
		IsPremium: true,
		Cards: []api.CardIn{{
			PlayerID:    "199556",
			Platform:    api.PlatformPS,
			BuyPriceMin: &buyMin,
			BuyPriceMax: &buyMax,
		}},
	})
	require.NoError(t, err)
	assert.False(t, post.Locked)
	require.Len(t, post.Cards, 1)
	assert.NotEmpty(t, post.Cards[0].ID)
	require.NotNil(t, post.TraderDisplayName)
	assert.Equal(t, "Tipster", *post.TraderDisplayName)

	// The trader's own feed never locks their post.
	ownFeed, err := trader.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, ownFeed, 1)
	assert.False(t, ownFeed[0].Locked)

	// A non-subscriber sees the post locked and redacted.
	viewerTokens := &memTokens{}
	viewer := api.NewClient(srv.URL, viewerTokens)
	signUp(t, viewer, "v@x.com", "viewer", "password1")
	signIn(t, viewer, viewerTokens, "v@x.com", "password1")

	feed, err := viewer.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Locked)
	assert.Equal(t, "Subscribe to unlock this post.", feed[0].Content)

	// Subscribing unlocks it.
	sub, err := viewer.Subscribe(ctx, traderUser.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", sub.Status)
	assert.Nil(t, sub.EndsAt)

	feed, err = viewer.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.False(t, feed[0].Locked)
	assert.Equal(t, "Buy before the weekend league.", feed[0].Content)

	subs, err := viewer.MySubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, traderUser.ID, subs[0].TraderID)

	// Cancelling locks it again.
	require.NoError(t, viewer.CancelSubscription(ctx, traderUser.ID))

	subs, err = viewer.MySubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "canceled", subs[0].Status)
	assert.NotNil(t, subs[0].EndsAt)

	feed, err = viewer.Feed(ctx)
	require.NoError(t, err)
	assert.True(t, feed[0].Locked)

	// Re-subscribing reactivates the same row.
	again, err := viewer.Subscribe(ctx, traderUser.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
	assert.Equal(t, "active", again.Status)
}

func TestSubscribeEdgeCases(t *testing.T) {
	client, tokens := newEnv(t)
	ctx := context.Background()

	me := signUp(t, client, "a@x.com", "bob", "password1")
	signIn(t, client, tokens, "a@x.com", "password1")
	_, err := client.BecomeTrader(ctx)
	require.NoError(t, err)
	_, err = client.UpsertProfile(ctx, api.TraderProfileUpsert{DisplayName: "Bob"})
	require.NoError(t, err)

	_, err = client.Subscribe(ctx, me.ID)
	require.Error(t, err)
	assert.Equal(t, "You can't subscribe to yourself.", err.Error())

	_, err = client.Subscribe(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, "Trader not found", err.Error())
}

func TestFeedIsNewestFirst(t *testing.T) {
	client, tokens := newEnv(t)
	ctx := context.Background()

	signUp(t, client, "t@x.com", "tipster", "password1")
	signIn(t, client, tokens, "t@x.com", "password1")
	_, err := client.BecomeTrader(ctx)
	require.NoError(t, err)

	for _, title := range []string{"first", "second", "third"} {
		_, err := client.CreatePost(ctx, api.PostCreate{
			Type:    api.PostPrediction,
			Title:   title,
			Content: "body",
		})
		require.NoError(t, err)
	}

	feed, err := client.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "third", feed[0].Title)
	assert.Equal(t, "second", feed[1].Title)
	assert.Equal(t, "first", feed[2].Title)
}

func TestUnauthenticatedCallsAreRejected(t *testing.T) {
	client, _ := newEnv(t)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Not authenticated", err.Error())

	tokensBad := &memTokens{tok: "garbage"}
	srv := httptest.NewServer(apitest.New().Handler())
	defer srv.Close()
	bad := api.NewClient(srv.URL, tokensBad)
	_, err = bad.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid token", err.Error())
}
