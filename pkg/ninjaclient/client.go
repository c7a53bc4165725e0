// Package ninjaclient provides the main entry point for creating NinjaRMM API clients
package ninjaclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmmkit/ninja/internal/client"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// New creates a new NinjaRMM API client from the given configuration. The
// API endpoint is normalized and, when credentials require it, the token URL
// defaults to the conventional /ws/oauth/token path on the same host.
func New(ctx context.Context, config *ninja.Config) (ninja.Client, error) {
	if config == nil {
		return nil, ninja.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, ninja.ErrAPIEndpointRequired
	}

	// Normalize API endpoint
	apiEndpoint := strings.TrimSuffix(config.APIEndpoint, "/")
	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	config.APIEndpoint = apiEndpoint

	if needsAuth(config) && config.TokenURL == "" {
		config.TokenURL = apiEndpoint + constants.TokenPath
	}

	apiClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// needsAuth checks if the config requires authentication.
func needsAuth(config *ninja.Config) bool {
	return config.AccessToken == "" &&
		(config.ClientID != "" || config.RefreshToken != "")
}

// NewWithEndpoint creates a new client with just an API endpoint (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (ninja.Client, error) {
	return New(ctx, &ninja.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a new client with an API endpoint and access token.
func NewWithToken(ctx context.Context, endpoint, token string) (ninja.Client, error) {
	return New(ctx, &ninja.Config{
		APIEndpoint: endpoint,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client credentials.
func NewWithClientCredentials(ctx context.Context, endpoint, clientID, clientSecret string) (ninja.Client, error) {
	return New(ctx, &ninja.Config{
		APIEndpoint:  endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
