package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
)

// ConfigPersister saves refreshed tokens so CLI sessions survive restarts.
type ConfigPersister interface {
	UpdateAPIToken(endpoint, token string, expiresAt time.Time, refreshToken string) error
}

// ConfigTokenManager wraps OAuth2TokenManager and persists every refreshed
// token through a ConfigPersister, keyed by API endpoint.
type ConfigTokenManager struct {
	oauth2Manager   *OAuth2TokenManager
	configPersister ConfigPersister
	endpoint        string
	mutex           sync.RWMutex
	lastToken       string
	lastExpiry      time.Time
}

// NewConfigTokenManager creates a config-persisting token manager. A non-empty
// initialToken seeds the underlying manager so cached CLI tokens are reused.
func NewConfigTokenManager(config *OAuth2Config, configPersister ConfigPersister, endpoint string, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	oauth2Manager := NewOAuth2TokenManager(config)

	if initialToken != "" {
		oauth2Manager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		oauth2Manager:   oauth2Manager,
		configPersister: configPersister,
		endpoint:        endpoint,
		lastToken:       initialToken,
		lastExpiry:      initialExpiry,
	}
}

// GetToken returns a valid access token, persisting it when the underlying
// manager obtained a new one.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	// Persist before returning so a short-lived command cannot exit with
	// the refreshed token unsaved.
	currentToken := m.oauth2Manager.store.Get()
	if currentToken != nil && (currentToken.AccessToken != m.lastToken || !currentToken.ExpiresAt.Equal(m.lastExpiry)) {
		persistErr := m.persistToken(currentToken)
		if persistErr != nil {
			// The request already succeeded, so only warn.
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
		}

		m.lastToken = currentToken.AccessToken
		m.lastExpiry = currentToken.ExpiresAt
	}

	return token, nil
}

// RefreshToken forces a token refresh and persists the result.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	currentToken := m.oauth2Manager.store.Get()
	if currentToken != nil {
		persistErr := m.persistToken(currentToken)
		if persistErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
		}

		m.lastToken = currentToken.AccessToken
		m.lastExpiry = currentToken.ExpiresAt
	}

	return nil
}

// SetToken manually sets the access token.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.oauth2Manager.SetToken(token, expiresAt)
	m.lastToken = token
	m.lastExpiry = expiresAt
}

// TokenExpiry returns the current token's expiration time, zero when no
// token is stored.
func (m *ConfigTokenManager) TokenExpiry() time.Time {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	token := m.oauth2Manager.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.configPersister == nil {
		return ErrNoConfigPersister
	}

	err := m.configPersister.UpdateAPIToken(m.endpoint, token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
