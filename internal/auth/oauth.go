package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rmmkit/ninja/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
	ErrEmptyAccessToken   = errors.New("token response contained no access token")
)

// TokenManager manages OAuth2 tokens for API authentication.
type TokenManager interface {
	// GetToken returns a valid access token, refreshing if necessary
	GetToken(ctx context.Context) (string, error)

	// RefreshToken forces a token refresh
	RefreshToken(ctx context.Context) error

	// SetToken sets the current token directly
	SetToken(token string, expiresAt time.Time)
}

// OAuth2Config holds the settings for the token endpoint.
type OAuth2Config struct {
	// TokenURL is the full URL of the OAuth2 token endpoint
	TokenURL string

	// ClientID and ClientSecret for the client_credentials grant
	ClientID     string
	ClientSecret string

	// Scope requested with each token. Defaults to the full
	// monitoring/management/control scope when empty.
	Scope string

	// RefreshToken, when set, is tried before client_credentials
	RefreshToken string

	// AccessToken seeds the store with an already issued token
	AccessToken string

	// HTTPClient used for token requests. Defaults to a client with
	// the standard timeout.
	HTTPClient *http.Client
}

// OAuth2TokenManager implements TokenManager against a NinjaRMM-style
// token endpoint. Credentials travel form-encoded in the request body,
// not as basic auth.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      *TokenStore
	httpClient *http.Client
	mu         sync.Mutex
}

// NewOAuth2TokenManager creates a token manager for the given config.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}

	manager := &OAuth2TokenManager{
		config:     config,
		store:      NewTokenStore(),
		httpClient: httpClient,
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken: config.AccessToken,
			TokenType:   "bearer",
		})
	}

	return manager
}

// GetToken returns a valid access token, obtaining or refreshing one if the
// stored token is missing or about to expire.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	err := m.RefreshToken(ctx)
	if err != nil {
		return "", err
	}

	token = m.store.Get()
	if !token.Valid() {
		return "", ErrNoValidCredentials
	}

	return token.AccessToken, nil
}

// RefreshToken obtains a fresh token from the token endpoint. A stored or
// configured refresh token takes precedence over client_credentials.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	refreshToken := m.config.RefreshToken
	if stored := m.store.Get(); stored != nil && stored.RefreshToken != "" {
		refreshToken = stored.RefreshToken
	}

	if refreshToken != "" {
		err := m.requestToken(ctx, m.refreshGrant(refreshToken))
		if err == nil {
			return nil
		}
		// Fall through to client_credentials when possible.
		if m.config.ClientID == "" || m.config.ClientSecret == "" {
			return err
		}
	}

	if m.config.ClientID == "" || m.config.ClientSecret == "" {
		return ErrNoValidCredentials
	}

	return m.requestToken(ctx, m.clientCredentialsGrant())
}

// SetToken sets the current token directly.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

func (m *OAuth2TokenManager) scope() string {
	if m.config.Scope != "" {
		return m.config.Scope
	}

	return constants.DefaultTokenScope
}

func (m *OAuth2TokenManager) clientCredentialsGrant() url.Values {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)
	form.Set("scope", m.scope())

	return form
}

func (m *OAuth2TokenManager) refreshGrant(refreshToken string) url.Values {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)

	return form
}

func (m *OAuth2TokenManager) requestToken(ctx context.Context, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return tokenRequestError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	if token.AccessToken == "" {
		return ErrEmptyAccessToken
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	m.store.Set(&token)

	return nil
}

func tokenRequestError(statusCode int, body []byte) error {
	var oauthErr struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}

	err := json.Unmarshal(body, &oauthErr)
	if err == nil && oauthErr.Error != "" {
		if oauthErr.Description != "" {
			return fmt.Errorf("%w (status %d): %s: %s",
				constants.ErrFailedRetrieveToken, statusCode, oauthErr.Error, oauthErr.Description)
		}

		return fmt.Errorf("%w (status %d): %s", constants.ErrFailedRetrieveToken, statusCode, oauthErr.Error)
	}

	return fmt.Errorf("%w (status %d): %s",
		constants.ErrFailedRetrieveToken, statusCode, strings.TrimSpace(string(body)))
}
