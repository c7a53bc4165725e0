package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rmmkit/ninja/internal/auth"
	"github.com/rmmkit/ninja/internal/client"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/rmmkit/ninja/pkg/ninjaclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common static errors used throughout the commands package.
var (
	ErrAPINotConfigured    = errors.New("API not configured")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrClientIDRequired    = errors.New("client ID is required")
	ErrOrganizationIDArg   = errors.New("organization ID must be a number")
	ErrDeviceIDArg         = errors.New("device ID must be a number")
	ErrEndpointRequired    = errors.New("API endpoint is required, pass --api or run 'ninja login'")
	ErrAlreadyLoggedOut    = errors.New("no active API to log out from")
	ErrPageSizeOutOfBounds = errors.New("page size must be between 1 and 1000")
)

// resolveAPIConfig determines the active API endpoint and credentials from
// flags, environment, and the config file, in that order of precedence.
func resolveAPIConfig(config *Config) (string, *APIConfig) {
	endpoint := viper.GetString("api")
	if endpoint != "" {
		for _, api := range config.APIs {
			if api.Endpoint == endpoint {
				return endpoint, api
			}
		}

		return endpoint, nil
	}

	if api := currentAPIConfig(config); api != nil {
		return api.Endpoint, api
	}

	return "", nil
}

// createClient builds a ninja.Client from the effective configuration.
// Clients authenticated with OAuth2 credentials persist refreshed tokens
// back to the config file.
func createClient(ctx context.Context) (ninja.Client, error) {
	config := loadConfig()

	endpoint, apiConfig := resolveAPIConfig(config)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	clientConfig := &ninja.Config{
		APIEndpoint: endpoint,
		Debug:       viper.GetBool("verbose"),
		PageSize:    effectivePageSize(config),
	}

	if token := viper.GetString("token"); token != "" {
		clientConfig.AccessToken = token

		return ninjaclient.New(ctx, clientConfig)
	}

	if apiConfig == nil {
		return ninjaclient.New(ctx, clientConfig)
	}

	if apiConfig.ClientID == "" {
		if apiConfig.Token == "" {
			return ninjaclient.New(ctx, clientConfig)
		}

		clientConfig.AccessToken = apiConfig.Token

		return ninjaclient.New(ctx, clientConfig)
	}

	return createOAuthClient(clientConfig, apiConfig)
}

// createOAuthClient wires a config-persisting token manager so tokens
// refreshed during a command run survive into the next invocation.
func createOAuthClient(clientConfig *ninja.Config, apiConfig *APIConfig) (ninja.Client, error) {
	oauthConfig := &auth.OAuth2Config{
		TokenURL:     clientConfig.APIEndpoint + constants.TokenPath,
		ClientID:     apiConfig.ClientID,
		ClientSecret: apiConfig.ClientSecret,
		RefreshToken: apiConfig.RefreshToken,
	}

	var expiry time.Time
	if apiConfig.TokenExpiresAt != nil {
		expiry = *apiConfig.TokenExpiresAt
	}

	tokenManager := auth.NewConfigTokenManager(
		oauthConfig,
		NewConfigPersister(),
		clientConfig.APIEndpoint,
		apiConfig.Token,
		expiry,
	)

	apiClient, err := client.NewWithTokenManager(clientConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

// effectivePageSize resolves the page size from the --page-size flag or the
// config file. Zero lets the client use its built-in default.
func effectivePageSize(config *Config) int {
	if size := viper.GetInt("page-size"); size > 0 {
		return size
	}

	return config.PageSize
}

// pageOptions builds pagination options from the effective page size.
func pageOptions() *ninja.PageOptions {
	size := viper.GetInt("page-size")
	if size <= 0 {
		size = loadConfig().PageSize
	}

	if size <= 0 {
		return nil
	}

	return &ninja.PageOptions{PageSize: size}
}

func parsePageSize(value string) (int, error) {
	size, err := strconv.Atoi(value)
	if err != nil || size < 1 || size > constants.MaxPageSize {
		return 0, ErrPageSizeOutOfBounds
	}

	return size, nil
}

// renderJSON writes data as indented JSON to stdout.
func renderJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	return nil
}

// renderYAML writes data as YAML to stdout.
func renderYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}

	return nil
}

// renderStructured renders data as JSON or YAML, returning false when the
// configured output format is tabular and the caller should render a table.
func renderStructured(data interface{}) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return true, renderJSON(data)
	case constants.FormatYAML:
		return true, renderYAML(data)
	default:
		return false, nil
	}
}

// truncateString shortens a string for table display.
func truncateString(value string, maxLen int) string {
	if maxLen <= 3 || len(value) <= maxLen {
		return value
	}

	return value[:maxLen-3] + "..."
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

// formatEpoch renders an epoch-seconds timestamp as RFC 3339, or N/A for
// zero values.
func formatEpoch(epoch float64) string {
	if epoch <= 0 {
		return constants.NotAvailable
	}

	return time.Unix(int64(epoch), 0).UTC().Format(time.RFC3339)
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
