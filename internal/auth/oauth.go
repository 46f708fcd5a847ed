package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/kv"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
)

const (
	statePrefix       = "oauth_state:"
	credentialsPrefix = "config:oauth:"
	stateTTL          = 10 * time.Minute
)

// ProviderProfile is the identity an OAuth provider reports.
type ProviderProfile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// Provider describes one OAuth identity provider.
type Provider struct {
	Name       string
	Endpoint   oauth2.Endpoint
	Scopes     []string
	ProfileURL string
	Parse      func(body []byte) (*ProviderProfile, error)
}

func GitHub() Provider {
	return Provider{
		Name:       "github",
		Endpoint:   github.Endpoint,
		Scopes:     []string{"read:user", "user:email"},
		ProfileURL: "https://api.github.com/user",
		Parse:      parseGitHub,
	}
}

func Discord() Provider {
	return Provider{
		Name: "discord",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://discord.com/oauth2/authorize",
			TokenURL:  "https://discord.com/api/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes:     []string{"identify", "email"},
		ProfileURL: "https://discord.com/api/users/@me",
		Parse:      parseDiscord,
	}
}

func parseGitHub(body []byte) (*ProviderProfile, error) {
	var u struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("failed to decode github user: %w", err)
	}
	if u.ID == 0 {
		return nil, errors.New("github user has no id")
	}
	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &ProviderProfile{ID: strconv.FormatInt(u.ID, 10), Email: u.Email, Name: name, AvatarURL: u.AvatarURL}, nil
}

func parseDiscord(body []byte) (*ProviderProfile, error) {
	var u struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Email      string `json:"email"`
		Avatar     string `json:"avatar"`
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("failed to decode discord user: %w", err)
	}
	if u.ID == "" {
		return nil, errors.New("discord user has no id")
	}
	p := &ProviderProfile{ID: u.ID, Email: u.Email, Name: u.GlobalName}
	if p.Name == "" {
		p.Name = u.Username
	}
	if u.Avatar != "" {
		p.AvatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
	}
	return p, nil
}

// Credentials are an OAuth app's client id and secret.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type UserUpserter interface {
	UpsertOAuthUser(ctx context.Context, u *models.User) (*models.User, error)
}

type OAuthOptions struct {
	// CallbackBase is the public origin the provider redirects back to.
	CallbackBase string
	// AppBase is where the browser lands after sign-in.
	AppBase  string
	Fallback map[string]Credentials
}

type LoginResult struct {
	Token       string
	User        *models.User
	RedirectURL string
}

// OAuthService runs the authorization-code flow. Client credentials come
// from the key-value store first and configuration second.
type OAuthService struct {
	store     kv.Store
	sealer    *kv.Sealer
	users     UserUpserter
	sessions  *SessionStore
	opts      OAuthOptions
	providers map[string]Provider
	client    *http.Client
	log       *logger.Logger
}

func NewOAuthService(store kv.Store, sealer *kv.Sealer, users UserUpserter, sessions *SessionStore, opts OAuthOptions, log *logger.Logger, providers ...Provider) *OAuthService {
	if len(providers) == 0 {
		providers = []Provider{GitHub(), Discord()}
	}
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name] = p
	}
	return &OAuthService{
		store:     store,
		sealer:    sealer,
		users:     users,
		sessions:  sessions,
		opts:      opts,
		providers: byName,
		client:    &http.Client{Timeout: 15 * time.Second},
		log:       log.With("service", "OAuthService"),
	}
}

func (s *OAuthService) provider(name string) (Provider, error) {
	p, ok := s.providers[strings.ToLower(name)]
	if !ok {
		return Provider{}, apperr.NotFound("oauth provider " + name)
	}
	return p, nil
}

type storedCredentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

func (s *OAuthService) credentials(ctx context.Context, provider string) (Credentials, error) {
	var stored storedCredentials
	err := kv.GetJSON(ctx, s.store, credentialsPrefix+provider, &stored)
	switch {
	case err == nil:
		secret, err := s.sealer.Open(stored.ClientSecret)
		if err != nil {
			return Credentials{}, err
		}
		return Credentials{ClientID: stored.ClientID, ClientSecret: secret}, nil
	case errors.Is(err, kv.ErrNotFound):
		c := s.opts.Fallback[provider]
		if c.ClientID == "" || c.ClientSecret == "" {
			return Credentials{}, apperr.Unavailable(provider + " OAuth credentials")
		}
		return c, nil
	default:
		return Credentials{}, err
	}
}

// SetCredentials stores an OAuth app's credentials with the secret sealed.
func (s *OAuthService) SetCredentials(ctx context.Context, provider string, c Credentials) error {
	p, err := s.provider(provider)
	if err != nil {
		return err
	}
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return apperr.Invalid("clientId and clientSecret are required")
	}
	sealed, err := s.sealer.Seal(c.ClientSecret)
	if err != nil {
		return err
	}
	return kv.PutJSON(ctx, s.store, credentialsPrefix+p.Name, storedCredentials{ClientID: c.ClientID, ClientSecret: sealed}, 0)
}

func (s *OAuthService) config(ctx context.Context, p Provider) (*oauth2.Config, error) {
	creds, err := s.credentials(ctx, p.Name)
	if err != nil {
		return nil, err
	}
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     p.Endpoint,
		Scopes:       p.Scopes,
		RedirectURL:  strings.TrimRight(s.opts.CallbackBase, "/") + "/api/v1/auth/" + p.Name + "/callback",
	}, nil
}

// LoginURL starts a sign-in and returns the provider's consent URL.
func (s *OAuthService) LoginURL(ctx context.Context, provider string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	conf, err := s.config(ctx, p)
	if err != nil {
		return "", err
	}
	state, err := randomToken(24)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, statePrefix+state, p.Name, stateTTL); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}
	return conf.AuthCodeURL(state), nil
}

func (s *OAuthService) loginError(reason string) error {
	return apperr.NewRedirect(strings.TrimRight(s.opts.AppBase, "/") + "/login?error=" + url.QueryEscape(reason))
}

// Callback finishes a sign-in. Every failure is returned as an
// *apperr.Redirect to the login page.
func (s *OAuthService) Callback(ctx context.Context, provider, state, code, providerError string) (*LoginResult, error) {
	log := s.log.With("provider", provider)
	if providerError != "" {
		return nil, s.loginError(providerError)
	}
	p, err := s.provider(provider)
	if err != nil {
		return nil, s.loginError("unknown_provider")
	}
	if state == "" || code == "" {
		return nil, s.loginError("missing_code")
	}
	owner, err := s.store.Take(ctx, statePrefix+state)
	if err != nil || owner != p.Name {
		return nil, s.loginError("invalid_state")
	}

	conf, err := s.config(ctx, p)
	if err != nil {
		log.Warn("oauth not configured", "error", err)
		return nil, s.loginError("not_configured")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		log.Warn("oauth code exchange failed", "error", err)
		return nil, s.loginError("exchange_failed")
	}

	profile, err := s.fetchProfile(ctx, conf, tok, p)
	if err != nil {
		log.Warn("failed to fetch oauth profile", "error", err)
		return nil, s.loginError("profile_failed")
	}

	user, err := s.users.UpsertOAuthUser(ctx, &models.User{
		Provider:       p.Name,
		ProviderUserID: profile.ID,
		Email:          optional(profile.Email),
		Name:           optional(profile.Name),
		AvatarURL:      optional(profile.AvatarURL),
	})
	if err != nil {
		log.Error("failed to save user", "error", err)
		return nil, s.loginError("server_error")
	}
	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return nil, s.loginError("server_error")
	}
	return &LoginResult{
		Token:       token,
		User:        user,
		RedirectURL: strings.TrimRight(s.opts.AppBase, "/") + "/onboarding",
	}, nil
}

func (s *OAuthService) fetchProfile(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token, p Provider) (*ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned %d", resp.StatusCode)
	}
	return p.Parse(body)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
