package api

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleTrader Role = "trader"
	RoleAdmin  Role = "admin"
)

type PostType string

const (
	PostTrade      PostType = "trade"
	PostSBC        PostType = "sbc"
	PostPrediction PostType = "prediction"
)

type Platform string

const (
	PlatformPS   Platform = "ps"
	PlatformXbox Platform = "xbox"
	PlatformPC   Platform = "pc"
)

type RegisterIn struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Role      Role    `json:"role"`
	DiscordID *string `json:"discord_id"`
}

type TraderProfileUpsert struct {
	DisplayName            string `json:"display_name"`
	Bio                    string `json:"bio"`
	BannerURL              string `json:"banner_url"`
	AvatarURL              string `json:"avatar_url"`
	SubscriptionPriceCents int    `json:"subscription_price_cents"`
}

type TraderProfile struct {
	UserID                 string    `json:"user_id"`
	DisplayName            string    `json:"display_name"`
	Bio                    string    `json:"bio"`
	BannerURL              *string   `json:"banner_url"`
	AvatarURL              *string   `json:"avatar_url"`
	SubscriptionPriceCents int       `json:"subscription_price_cents"`
	IsVerified             bool      `json:"is_verified"`
	CreatedAt              time.Time `json:"created_at"`
}

type CardIn struct {
	PlayerID     string   `json:"player_id"`
	Platform     Platform `json:"platform"`
	BuyPriceMin  *int     `json:"buy_price_min"`
	BuyPriceMax  *int     `json:"buy_price_max"`
	SellPriceMin *int     `json:"sell_price_min"`
	SellPriceMax *int     `json:"sell_price_max"`
}

type Card struct {
	ID           string   `json:"id"`
	PlayerID     string   `json:"player_id"`
	Platform     Platform `json:"platform"`
	BuyPriceMin  *int     `json:"buy_price_min"`
	BuyPriceMax  *int     `json:"buy_price_max"`
	SellPriceMin *int     `json:"sell_price_min"`
	SellPriceMax *int     `json:"sell_price_max"`
}

type PostCreate struct {
	Type      PostType   `json:"type"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	IsPremium bool       `json:"is_premium"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Cards     []CardIn   `json:"cards"`
}

type Post struct {
	ID                string     `json:"id"`
	TraderID          string     `json:"trader_id"`
	TraderDisplayName *string    `json:"trader_display_name"`
	Type              PostType   `json:"type"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	IsPremium         bool       `json:"is_premium"`
	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         *time.Time `json:"expires_at"`
	Cards             []Card     `json:"cards"`
	Locked            bool       `json:"locked"`
}

type SubscribeIn struct {
	TraderID string `json:"trader_id"`
}

type Subscription struct {
	ID           string     `json:"id"`
	SubscriberID string     `json:"subscriber_id"`
	TraderID     string     `json:"trader_id"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	EndsAt       *time.Time `json:"ends_at"`
}

// RoleOut is the become-trader response.
type RoleOut struct {
	Role Role `json:"role"`
}
