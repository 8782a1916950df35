// Package ghlauth implements the GoHighLevel marketplace OAuth flow used in
// local mode: browser-based authorization, token file storage, refresh, and
// agency-to-location token exchange.
package ghlauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/basicmachines/highlevel-mcp/auth"
)

const (
	// DefaultMarketplaceURL hosts the authorization (chooselocation) page.
	DefaultMarketplaceURL = "https://marketplace.gohighlevel.com"

	// DefaultAPIURL hosts the token and locationToken endpoints.
	DefaultAPIURL = "https://services.leadconnectorhq.com"

	// DefaultTokenPath is where the agency token is stored.
	DefaultTokenPath = "./config/tokens.json"

	// DefaultCallbackPort is the loopback port for the OAuth callback.
	DefaultCallbackPort = 8080
)

// ErrNotAuthenticated is returned when no agency token is stored yet.
var ErrNotAuthenticated = errors.New("ghlauth: no stored agency token, run setup first")

// Scopes requested during authorization. GoHighLevel uses dots and slashes
// as separators.
var Scopes = []string{
	"contacts.readonly",
	"contacts.write",
	"conversations.readonly",
	"conversations.write",
	"conversations/message.readonly",
	"conversations/message.write",
	"opportunities.readonly",
	"opportunities.write",
	"calendars.readonly",
	"calendars.write",
	"calendars/events.readonly",
	"calendars/events.write",
	"forms.readonly",
	"locations.readonly",
	"oauth.readonly",
	"oauth.write",
}

// Settings configure the marketplace OAuth flow.
type Settings struct {
	MarketplaceURL string
	APIURL         string
	ClientID       string
	ClientSecret   string
	RedirectURI    string
	TokenPath      string
	CallbackPort   int
}

// SettingsFromEnv builds Settings from environment variables.
func SettingsFromEnv() *Settings {
	return &Settings{
		MarketplaceURL: getEnv("GHL_BASE_URL", DefaultMarketplaceURL),
		APIURL:         getEnv("GHL_API_URL", DefaultAPIURL),
		ClientID:       getEnv("GHL_CLIENT_ID", ""),
		ClientSecret:   getEnv("GHL_CLIENT_SECRET", ""),
		RedirectURI:    getEnv("OAUTH_REDIRECT_URI", fmt.Sprintf("http://localhost:%d/oauth/callback", DefaultCallbackPort)),
		TokenPath:      getEnv("TOKEN_STORAGE_PATH", DefaultTokenPath),
		CallbackPort:   DefaultCallbackPort,
	}
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	if s.ClientID == "" {
		return fmt.Errorf("ghlauth: GHL_CLIENT_ID is required")
	}
	if s.ClientSecret == "" {
		return fmt.Errorf("ghlauth: GHL_CLIENT_SECRET is required")
	}
	return nil
}

// oauthConfig builds the oauth2 config for the marketplace flow.
// GoHighLevel wants client credentials in the POST body, not basic auth.
func (s *Settings) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		RedirectURL:  s.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   strings.TrimSuffix(s.MarketplaceURL, "/") + "/oauth/chooselocation",
			TokenURL:  strings.TrimSuffix(s.APIURL, "/") + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Service manages the agency token lifecycle and location token exchange.
// It implements ghl.TokenProvider for local mode.
type Service struct {
	settings   *Settings
	store      *TokenStore
	httpClient *http.Client
	logger     auth.Logger

	mu             sync.Mutex
	locationTokens map[string]*StoredToken
}

// NewService creates a Service. A nil logger uses the default.
func NewService(settings *Settings, logger auth.Logger) (*Service, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &Service{
		settings:       settings,
		store:          NewTokenStore(settings.TokenPath),
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		logger:         logger,
		locationTokens: make(map[string]*StoredToken),
	}, nil
}

// AuthCodeURL returns the marketplace authorization URL for the setup flow.
func (s *Service) AuthCodeURL(state string) string {
	return s.settings.oauthConfig().AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for an agency token and persists
// it. GoHighLevel requires user_type=Location on the exchange.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*StoredToken, error) {
	token, err := s.settings.oauthConfig().Exchange(ctx, code,
		oauth2.SetAuthURLParam("user_type", "Location"))
	if err != nil {
		return nil, fmt.Errorf("ghlauth: code exchange failed: %w", err)
	}

	stored := FromOAuth2Token(token)
	if err := s.store.Save(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// AgencyToken returns a valid agency access token, refreshing through the
// stored refresh token when it is close to expiry.
func (s *Service) AgencyToken(ctx context.Context) (string, error) {
	stored, err := s.store.Load()
	if err != nil {
		return "", err
	}

	if !stored.NeedsRefresh() {
		return stored.AccessToken, nil
	}

	s.logger.Info("Agency token needs refresh (expires %s)", stored.ExpiresAt.Format(time.RFC3339))

	source := s.settings.oauthConfig().TokenSource(ctx, &oauth2.Token{
		RefreshToken: stored.RefreshToken,
	})
	refreshed, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("ghlauth: token refresh failed: %w", err)
	}

	stored = FromOAuth2Token(refreshed)
	if err := s.store.Save(stored); err != nil {
		return "", err
	}
	return stored.AccessToken, nil
}

// LocationToken implements ghl.TokenProvider. An empty locationID returns
// the agency token; otherwise the agency token is exchanged for a
// location-scoped one via the locationToken endpoint and cached until
// expiry.
func (s *Service) LocationToken(ctx context.Context, locationID string) (string, error) {
	if locationID == "" {
		return s.AgencyToken(ctx)
	}

	s.mu.Lock()
	if cached, ok := s.locationTokens[locationID]; ok && !cached.NeedsRefresh() {
		s.mu.Unlock()
		return cached.AccessToken, nil
	}
	s.mu.Unlock()

	agencyToken, err := s.AgencyToken(ctx)
	if err != nil {
		return "", err
	}

	companyID, err := companyIDFromToken(agencyToken)
	if err != nil {
		return "", fmt.Errorf("ghlauth: %w", err)
	}

	form := url.Values{}
	form.Set("companyId", companyID)
	form.Set("locationId", locationID)

	endpoint := strings.TrimSuffix(s.settings.APIURL, "/") + "/oauth/locationToken"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ghlauth: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+agencyToken)
	req.Header.Set("Version", "2021-07-28")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ghlauth: location token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ghlauth: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("ghlauth: failed to get location token: %d - %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		Scope        string `json:"scope"`
		UserType     string `json:"userType"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ghlauth: malformed location token response: %w", err)
	}

	expiresIn := parsed.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 86400
	}

	token := &StoredToken{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		TokenType:    parsed.TokenType,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
		Scope:        parsed.Scope,
		UserType:     parsed.UserType,
	}

	s.mu.Lock()
	s.locationTokens[locationID] = token
	s.mu.Unlock()

	s.logger.Info("Obtained location token for %s (expires in %ds)", locationID, expiresIn)
	return token.AccessToken, nil
}

// companyIDFromToken pulls the agency (company) ID out of the token's
// authClassId claim. Decoded without verification: the token came from the
// provider's own token endpoint over TLS.
func companyIDFromToken(agencyToken string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(agencyToken, claims); err != nil {
		return "", fmt.Errorf("failed to extract company ID from token: %w", err)
	}
	if companyID, ok := claims["authClassId"].(string); ok && companyID != "" {
		return companyID, nil
	}
	return "", fmt.Errorf("could not extract company ID from token")
}

// getEnv gets environment variable with default value
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
