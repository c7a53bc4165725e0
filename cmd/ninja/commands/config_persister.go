package commands

import (
	"fmt"
	"sync"
	"time"
)

// ConfigPersister implements the auth.ConfigPersister interface by writing
// refreshed tokens back to the CLI config file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken updates the stored token for the API with the given
// endpoint.
func (p *ConfigPersister) UpdateAPIToken(endpoint, token string, expiresAt time.Time, refreshToken string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()

	var apiConfig *APIConfig

	for _, api := range config.APIs {
		if api.Endpoint == endpoint {
			apiConfig = api

			break
		}
	}

	if apiConfig == nil {
		return fmt.Errorf("%w: %s", ErrAPINotConfigured, endpoint)
	}

	apiConfig.Token = token
	if !expiresAt.IsZero() {
		apiConfig.TokenExpiresAt = &expiresAt
	}

	if refreshToken != "" {
		apiConfig.RefreshToken = refreshToken
	}

	now := time.Now()
	apiConfig.LastRefreshed = &now

	return saveConfigStruct(config)
}
