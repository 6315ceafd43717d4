package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"marketxi/internal/api"
	"marketxi/internal/session"
)

const (
	ViewFeed     = "feed"
	ViewTraders  = "traders"
	ViewStudio   = "studio"
	ViewSettings = "settings"
)

var ErrTraderOnly = errors.New("trader role required")

// Shell owns the session, the active view, and navigation between views.
type Shell struct {
	client  *api.Client
	session *session.Session
	term    *Term

	View string

	auth     *AuthView
	feed     *FeedView
	traders  *TradersView
	studio   *StudioView
	settings *SettingsView

	root       context.Context
	viewCtx    context.Context
	viewCancel context.CancelFunc
}

func NewShell(client *api.Client, sess *session.Session, term *Term) *Shell {
	return &Shell{
		client:   client,
		session:  sess,
		term:     term,
		View:     ViewFeed,
		auth:     NewAuthView(client, sess),
		feed:     NewFeedView(client),
		traders:  NewTradersView(client),
		studio:   NewStudioView(client),
		settings: NewSettingsView(client, sess),
	}
}

// Navigate switches the active view, cancelling any work tied to the view
// being left. Studio is reachable only with the trader role.
func (s *Shell) Navigate(name string) error {
	if name == ViewStudio && !s.session.IsTrader() {
		return ErrTraderOnly
	}
	if s.viewCancel != nil {
		s.viewCancel()
	}
	root := s.root
	if root == nil {
		root = context.Background()
	}
	s.viewCtx, s.viewCancel = context.WithCancel(root)
	s.View = name
	return nil
}

// Logout clears the token and session and resets the view to the feed.
func (s *Shell) Logout() {
	if err := s.session.Logout(); err != nil {
		s.term.Printf("error: %s\n", err)
	}
	s.View = ViewFeed
}

// Run drives the interactive loop until quit or end of input.
func (s *Shell) Run(ctx context.Context) {
	s.root = ctx
	s.session.Reload(ctx, s.client)

	if s.session.SignedIn() {
		s.enterView(s.View)
	}
	for {
		if ctx.Err() != nil {
			return
		}
		if !s.session.SignedIn() {
			if !s.landing(ctx) {
				return
			}
			continue
		}
		if !s.step() {
			return
		}
	}
}

// landing is the unauthenticated screen embedding the auth view.
func (s *Shell) landing(ctx context.Context) bool {
	s.term.Println("MarketXI . creator-led FC trading tips")
	s.auth.Render(s.term)
	line, ok := s.term.ReadLine("(login|register|quit)> ")
	if !ok {
		return false
	}

	switch line {
	case "quit", "exit":
		return false
	case "login", "register":
		if (line == "register") != (s.auth.Mode == ModeRegister) {
			s.auth.Toggle()
		}
		email, ok := s.term.Prompt("email")
		if !ok {
			return false
		}
		username := ""
		if s.auth.Mode == ModeRegister {
			if username, ok = s.term.Prompt("username"); !ok {
				return false
			}
		}
		password, ok := s.term.Prompt("password")
		if !ok {
			return false
		}
		if s.auth.Submit(ctx, email, username, password) {
			s.session.Reload(ctx, s.client)
			s.enterView(ViewFeed)
		}
	case "":
	default:
		s.term.Println("unknown command")
	}
	return true
}

func (s *Shell) step() bool {
	s.render()

	me := s.session.User()
	line, ok := s.term.ReadLine("[" + me.Username + " " + s.View + "]> ")
	if !ok {
		return false
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "logout":
		s.Logout()
		return true
	case "help":
		s.printHelp()
		return true
	case ViewFeed, ViewTraders, ViewStudio, ViewSettings:
		s.enterView(cmd)
		return true
	case "refresh":
		s.loadActive()
		return true
	}

	switch s.View {
	case ViewTraders:
		s.tradersCommand(cmd, args)
	case ViewStudio:
		s.studioCommand(cmd, args)
	case ViewSettings:
		s.settingsCommand(cmd, args)
	default:
		s.term.Println("unknown command (try 'help')")
	}
	return true
}

// enterView navigates and performs the view's on-enter fetch.
func (s *Shell) enterView(name string) {
	if err := s.Navigate(name); err != nil {
		s.term.Printf("error: %s\n", err)
		return
	}
	s.loadActive()
}

func (s *Shell) loadActive() {
	switch s.View {
	case ViewFeed:
		s.feed.Load(s.viewCtx)
	case ViewTraders:
		s.traders.Load(s.viewCtx)
	case ViewSettings:
		s.settings.LoadSubscriptions(s.viewCtx)
	}
}

func (s *Shell) render() {
	switch s.View {
	case ViewFeed:
		s.feed.Render(s.term)
	case ViewTraders:
		s.traders.Render(s.term)
	case ViewStudio:
		s.studio.Render(s.term)
	case ViewSettings:
		s.settings.Render(s.term)
	}
}

func (s *Shell) tradersCommand(cmd string, args []string) {
	switch cmd {
	case "show":
		if len(args) != 1 {
			s.term.Println("usage: show <trader_id>")
			return
		}
		if trader := s.traders.Show(s.viewCtx, args[0]); trader != nil {
			RenderTrader(s.term, trader)
		}
	case "sub":
		if len(args) != 1 {
			s.term.Println("usage: sub <trader_id>")
			return
		}
		s.traders.Subscribe(s.viewCtx, args[0])
	default:
		s.term.Println("unknown command (try 'help')")
	}
}

func (s *Shell) studioCommand(cmd string, args []string) {
	switch cmd {
	case "profile":
		s.editProfile()
	case "save":
		s.studio.SaveProfile(s.viewCtx)
	case "post":
		s.editPost()
	case "card":
		s.studio.AddCard()
		s.term.Printf("card %d added\n", len(s.studio.Draft.Cards)-1)
	case "edit":
		if len(args) < 2 {
			s.term.Println("usage: edit <card index> <field> [value]")
			return
		}
		value := ""
		if len(args) > 2 {
			value = strings.Join(args[2:], " ")
		}
		i := atoiOr(args[0], -1)
		if err := s.studio.UpdateCard(i, args[1], value); err != nil {
			s.term.Printf("error: %s\n", err)
		}
	case "publish":
		if !s.studio.CanPublish() {
			s.term.Println("Title and content are required.")
			return
		}
		s.studio.Publish(s.viewCtx)
	default:
		s.term.Println("unknown command (try 'help')")
	}
}

func (s *Shell) settingsCommand(cmd string, args []string) {
	switch cmd {
	case "upgrade":
		s.settings.BecomeTrader(s.viewCtx)
	case "cancel":
		if len(args) != 1 {
			s.term.Println("usage: cancel <trader_id>")
			return
		}
		s.settings.Cancel(s.viewCtx, args[0])
	default:
		s.term.Println("unknown command (try 'help')")
	}
}

func (s *Shell) editProfile() {
	fieldPrompts := []struct {
		label string
		set   func(string)
	}{
		{"display_name", func(v string) { s.studio.Profile.DisplayName = v }},
		{"bio", func(v string) { s.studio.Profile.Bio = v }},
		{"banner_url", func(v string) { s.studio.Profile.BannerURL = v }},
		{"avatar_url", func(v string) { s.studio.Profile.AvatarURL = v }},
		{"subscription_price_cents", s.studio.SetPrice},
	}
	for _, f := range fieldPrompts {
		value, ok := s.term.Prompt(f.label)
		if !ok {
			return
		}
		f.set(value)
	}
}

func (s *Shell) editPost() {
	if kind, ok := s.term.Prompt("type (trade|sbc|prediction)"); ok {
		switch api.PostType(kind) {
		case api.PostTrade, api.PostSBC, api.PostPrediction:
			s.studio.Draft.Type = api.PostType(kind)
		}
	} else {
		return
	}
	if tier, ok := s.term.Prompt("tier (premium|free)"); ok {
		s.studio.Draft.IsPremium = tier != "free"
	} else {
		return
	}
	if title, ok := s.term.Prompt("title"); ok {
		s.studio.Draft.Title = title
	} else {
		return
	}
	if content, ok := s.term.Prompt("content"); ok {
		s.studio.Draft.Content = content
	}
}

func (s *Shell) printHelp() {
	s.term.Println("views: feed traders studio settings")
	s.term.Println("common: refresh logout quit")
	s.term.Println("traders: show <id> . sub <id>")
	s.term.Println("studio: profile save post card edit <i> <field> [value] publish")
	s.term.Println("settings: upgrade cancel <trader_id>")
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
