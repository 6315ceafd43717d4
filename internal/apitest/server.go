// Package apitest is an in-memory stand-in for the MarketXI API, used to
// exercise the client against the real route table and error contract.
package apitest

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"marketxi/internal/api"
)

const lockedContent = "Subscribe to unlock this post."

type userRecord struct {
	api.User
	PasswordHash string
}

type postRecord struct {
	api.Post
	seq int
}

type subRecord struct {
	api.Subscription
	seq int
}

type Server struct {
	engine *gin.Engine

	mu        sync.Mutex
	jwtSecret []byte
	seq       int
	users     map[string]*userRecord
	profiles  map[string]*api.TraderProfile
	posts     []*postRecord
	subs      map[string]*subRecord
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		engine:    gin.New(),
		jwtSecret: []byte("apitest-secret"),
		users:     make(map[string]*userRecord),
		profiles:  make(map[string]*api.TraderProfile),
		subs:      make(map[string]*subRecord),
	}
	s.registerRoutes()
	return s
}

// Handler exposes the engine for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	auth := s.engine.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.GET("/me", s.requireUser(), s.me)
	}

	traders := s.engine.Group("/traders")
	{
		traders.GET("", s.listTraders)
		traders.POST("/me", s.requireUser(), s.requireRole(api.RoleTrader, api.RoleAdmin), s.upsertProfile)
		traders.POST("/me/become-trader", s.requireUser(), s.becomeTrader)
		traders.GET("/:id", s.getTrader)
	}

	posts := s.engine.Group("/posts")
	posts.Use(s.requireUser())
	{
		posts.POST("", s.requireRole(api.RoleTrader, api.RoleAdmin), s.createPost)
		posts.GET("/feed", s.feed)
	}

	subs := s.engine.Group("/subscriptions")
	subs.Use(s.requireUser())
	{
		subs.POST("", s.subscribe)
		subs.GET("", s.mySubscriptions)
		subs.POST("/:trader_id/cancel", s.cancelSubscription)
	}
}

// ----- auth -----

func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
			return s.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}
		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}

		s.mu.Lock()
		user, ok := s.users[sub]
		s.mu.Unlock()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
			return
		}
		c.Set("user", user)
	}
}

func (s *Server) requireRole(roles ...api.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		for _, role := range roles {
			if user.Role == role {
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Forbidden"})
	}
}

func currentUser(c *gin.Context) *userRecord {
	return c.MustGet("user").(*userRecord)
}

func (s *Server) issueToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) register(c *gin.Context) {
	var in api.RegisterIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	email := strings.ToLower(in.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email || u.Username == in.Username {
			c.JSON(http.StatusConflict, gin.H{"detail": "Email or username already in use"})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	user := &userRecord{
		User: api.User{
			ID:       uuid.NewString(),
			Email:    email,
			Username: in.Username,
			Role:     api.RoleUser,
		},
		PasswordHash: string(hash),
	}
	s.users[user.ID] = user
	c.JSON(http.StatusOK, user.User)
}

func (s *Server) login(c *gin.Context) {
	var in api.LoginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	email := strings.ToLower(in.Email)

	s.mu.Lock()
	var user *userRecord
	for _, u := range s.users {
		if u.Email == email {
			user = u
			break
		}
	}
	s.mu.Unlock()

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, api.TokenOut{AccessToken: s.issueToken(user.ID), TokenType: "bearer"})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).User)
}

// ----- traders -----

func (s *Server) listTraders(c *gin.Context) {
	s.mu.Lock()
	out := make([]api.TraderProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, *p)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsVerified != out[j].IsVerified {
			return out[i].IsVerified
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) getTrader(c *gin.Context) {
	s.mu.Lock()
	profile, ok := s.profiles[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Trader not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) becomeTrader(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	if user.Role == api.RoleUser {
		user.Role = api.RoleTrader
	}
	role := user.Role
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (s *Server) upsertProfile(c *gin.Context) {
	var in api.TraderProfileUpsert
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	user := currentUser(c)

	s.mu.Lock()
	profile, ok := s.profiles[user.ID]
	if !ok {
		profile = &api.TraderProfile{UserID: user.ID, CreatedAt: time.Now().UTC()}
		s.profiles[user.ID] = profile
	}
	profile.DisplayName = in.DisplayName
	profile.Bio = in.Bio
	profile.BannerURL = optional(in.BannerURL)
	profile.AvatarURL = optional(in.AvatarURL)
	profile.SubscriptionPriceCents = in.SubscriptionPriceCents
	out := *profile
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

// MarkVerified flips a trader's verified flag, something only backoffice
// tooling does in production.
func (s *Server) MarkVerified(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		p.IsVerified = true
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// ----- posts -----

func (s *Server) createPost(c *gin.Context) {
	var in api.PostCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	user := currentUser(c)

	s.mu.Lock()
	s.seq++
	post := &postRecord{
		Post: api.Post{
			ID:        uuid.NewString(),
			TraderID:  user.ID,
			Type:      in.Type,
			Title:     in.Title,
			Content:   in.Content,
			IsPremium: in.IsPremium,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: in.ExpiresAt,
			Cards:     make([]api.Card, 0, len(in.Cards)),
		},
		seq: s.seq,
	}
	for _, card := range in.Cards {
		post.Cards = append(post.Cards, api.Card{
			ID:           uuid.NewString(),
			PlayerID:     card.PlayerID,
			Platform:     card.Platform,
			BuyPriceMin:  card.BuyPriceMin,
			BuyPriceMax:  card.BuyPriceMax,
			SellPriceMin: card.SellPriceMin,
			SellPriceMax: card.SellPriceMax,
		})
	}
	if profile, ok := s.profiles[user.ID]; ok {
		name := profile.DisplayName
		post.TraderDisplayName = &name
	}
	s.posts = append(s.posts, post)
	out := post.Post
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) feed(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	records := make([]*postRecord, len(s.posts))
	copy(records, s.posts)
	sort.SliceStable(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	if len(records) > 100 {
		records = records[:100]
	}

	out := make([]api.Post, 0, len(records))
	for _, r := range records {
		post := r.Post
		if post.IsPremium && post.TraderID != user.ID && !s.activeSubLocked(user.ID, post.TraderID) {
			post.Locked = true
			post.Content = lockedContent
		}
		out = append(out, post)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

// activeSubLocked reports an active subscription; callers hold s.mu.
func (s *Server) activeSubLocked(subscriberID, traderID string) bool {
	sub, ok := s.subs[subscriberID+"|"+traderID]
	return ok && sub.Status == "active"
}

// ----- subscriptions -----

func (s *Server) subscribe(c *gin.Context) {
	var in api.SubscribeIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	user := currentUser(c)
	if in.TraderID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You can't subscribe to yourself."})
		return
	}

	s.mu.Lock()
	if _, ok := s.profiles[in.TraderID]; !ok {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"detail": "Trader not found"})
		return
	}

	key := user.ID + "|" + in.TraderID
	sub, ok := s.subs[key]
	if ok {
		sub.Status = "active"
		sub.EndsAt = nil
	} else {
		s.seq++
		sub = &subRecord{
			Subscription: api.Subscription{
				ID:           uuid.NewString(),
				SubscriberID: user.ID,
				TraderID:     in.TraderID,
				Status:       "active",
				StartedAt:    time.Now().UTC(),
			},
			seq: s.seq,
		}
		s.subs[key] = sub
	}
	out := sub.Subscription
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) mySubscriptions(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	records := make([]*subRecord, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.SubscriberID == user.ID {
			records = append(records, sub)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	out := make([]api.Subscription, 0, len(records))
	for _, sub := range records {
		out = append(out, sub.Subscription)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) cancelSubscription(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	if sub, ok := s.subs[user.ID+"|"+c.Param("trader_id")]; ok {
		now := time.Now().UTC()
		sub.Status = "canceled"
		sub.EndsAt = &now
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
