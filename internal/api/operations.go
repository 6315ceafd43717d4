package api

import (
	"context"
	"net/http"
)

func (c *Client) Register(ctx context.Context, in RegisterIn) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, in LoginIn) (*TokenOut, error) {
	var out TokenOut
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Feed(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.do(ctx, http.MethodGet, "/posts/feed", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTraders(ctx context.Context) ([]TraderProfile, error) {
	var out []TraderProfile
	if err := c.do(ctx, http.MethodGet, "/traders", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTrader(ctx context.Context, traderID string) (*TraderProfile, error) {
	var out TraderProfile
	if err := c.do(ctx, http.MethodGet, "/traders/"+traderID, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BecomeTrader(ctx context.Context) (*RoleOut, error) {
	var out RoleOut
	if err := c.do(ctx, http.MethodPost, "/traders/me/become-trader", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpsertProfile(ctx context.Context, in TraderProfileUpsert) (*TraderProfile, error) {
	var out TraderProfile
	if err := c.do(ctx, http.MethodPost, "/traders/me", in, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, in PostCreate) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPost, "/posts", in, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Subscribe(ctx context.Context, traderID string) (*Subscription, error) {
	var out Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions", SubscribeIn{TraderID: traderID}, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MySubscriptions(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelSubscription(ctx context.Context, traderID string) error {
	return c.do(ctx, http.MethodPost, "/subscriptions/"+traderID+"/cancel", nil, true, nil)
}
