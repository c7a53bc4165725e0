// Package client implements the ninja.Client interface.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/rmmkit/ninja/internal/auth"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/internal/http"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// Client implements the ninja.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       ninja.Logger
	pageSize     int

	// Resource clients
	organizations ninja.OrganizationsClient
	devices       ninja.DevicesClient
	queries       ninja.QueriesClient
	alerts        ninja.AlertsClient
	activities    ninja.ActivitiesClient
}

// createTokenManager creates the appropriate token manager based on config.
func createTokenManager(config *ninja.Config) auth.TokenManager {
	if config.AccessToken != "" {
		return &staticTokenManager{token: config.AccessToken}
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     getTokenURL(config),
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scope:        config.Scope,
			RefreshToken: config.RefreshToken,
		})
	}

	return nil // No authentication
}

// getTokenURL returns the token URL from config or the conventional default.
func getTokenURL(config *ninja.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return config.APIEndpoint + constants.TokenPath
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *ninja.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.ConvertTimestamps {
		httpOpts = append(httpOpts, http.WithTimestampConversion(true))
	}

	if config.Cache != nil {
		cache, err := ninja.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("building cache: %w", err)
		}

		manager := ninja.NewCacheManagerWithPolicy(cache, config.Cache.Options, config.Cache.Policy)
		httpOpts = append(httpOpts, http.WithCache(manager))
	}

	return httpOpts, nil
}

// New creates a new API client for the given configuration.
func New(ctx context.Context, config *ninja.Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, ninja.ErrAPIEndpointRequired
	}

	tokenManager := createTokenManager(config)

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
		pageSize:     config.PageSize,
	}

	client.initializeResourceClients()

	return client, nil
}

// NewWithTokenManager creates a client with a custom token manager, used by
// the CLI to plug in config-persisting token management.
func NewWithTokenManager(config *ninja.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, ninja.ErrAPIEndpointRequired
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
		pageSize:     config.PageSize,
	}

	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Organizations implements ninja.Client.Organizations.
func (c *Client) Organizations() ninja.OrganizationsClient {
	return c.organizations
}

// Devices implements ninja.Client.Devices.
func (c *Client) Devices() ninja.DevicesClient {
	return c.devices
}

// Queries implements ninja.Client.Queries.
func (c *Client) Queries() ninja.QueriesClient {
	return c.queries
}

// Alerts implements ninja.Client.Alerts.
func (c *Client) Alerts() ninja.AlertsClient {
	return c.alerts
}

// Activities implements ninja.Client.Activities.
func (c *Client) Activities() ninja.ActivitiesClient {
	return c.activities
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ninja.ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.organizations = NewOrganizationsClient(c.httpClient, c.pageSize)
	c.devices = NewDevicesClient(c.httpClient, c.pageSize)
	c.queries = NewQueriesClient(c.httpClient, c.pageSize)
	c.alerts = NewAlertsClient(c.httpClient)
	c.activities = NewActivitiesClient(c.httpClient, c.pageSize)
}

// staticTokenManager provides a static token.
type staticTokenManager struct {
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return ninja.ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// loggerAdapter adapts ninja.Logger to http.Logger.
type loggerAdapter struct {
	logger ninja.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
