package commands

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/rmmkit/ninja/pkg/ninjaclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint  string
		clientID     string
		clientSecret string
		name         string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to NinjaRMM",
		Long:  "Authenticate with a NinjaRMM API endpoint using OAuth2 client credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint: ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
			}

			if apiEndpoint == "" {
				return ErrEndpointRequired
			}

			if clientID == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Client ID: ")
				clientID, _ = reader.ReadString('\n')
				clientID = strings.TrimSpace(clientID)
			}

			if clientID == "" {
				return ErrClientIDRequired
			}

			if clientSecret == "" {
				fmt.Print("Client secret: ")

				byteSecret, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}

				clientSecret = string(byteSecret)

				fmt.Println()
			}

			ctx := context.Background()

			clientConfig := &ninja.Config{
				APIEndpoint:  apiEndpoint,
				ClientID:     clientID,
				ClientSecret: clientSecret,
			}

			apiClient, err := ninjaclient.New(ctx, clientConfig)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			// Verify the credentials before persisting anything.
			token, err := apiClient.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			// New normalized the endpoint in place.
			normalizedEndpoint := clientConfig.APIEndpoint

			configKey := name
			if configKey == "" {
				configKey = extractDomainFromEndpoint(normalizedEndpoint)
			}

			config := loadConfig()
			if config.APIs == nil {
				config.APIs = make(map[string]*APIConfig)
			}

			apiConfig, exists := config.APIs[configKey]
			if !exists {
				apiConfig = &APIConfig{}
				config.APIs[configKey] = apiConfig
			}

			apiConfig.Endpoint = normalizedEndpoint
			apiConfig.ClientID = clientID
			apiConfig.ClientSecret = clientSecret
			apiConfig.Token = token

			if config.CurrentAPI == "" || len(config.APIs) == 1 {
				config.CurrentAPI = configKey
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged in to %s\n", normalizedEndpoint)

			orgs, err := apiClient.Organizations().List(ctx, ninja.NewQueryParams().WithPageSize(5))
			if err == nil && len(orgs) > 0 {
				fmt.Println("\nAccessible organizations:")

				for _, org := range orgs {
					fmt.Printf("  - %s\n", org.Name)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&name, "name", "", "name for this API in the config (defaults to the host)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout from NinjaRMM",
		Long:  "Clear stored credentials for the current API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.CurrentAPI == "" {
				return ErrAlreadyLoggedOut
			}

			apiConfig, exists := config.APIs[config.CurrentAPI]
			if !exists {
				return ErrAlreadyLoggedOut
			}

			apiConfig.ClientID = ""
			apiConfig.ClientSecret = ""
			apiConfig.Token = ""
			apiConfig.TokenExpiresAt = nil
			apiConfig.RefreshToken = ""
			apiConfig.LastRefreshed = nil

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}

// extractDomainFromEndpoint returns the host part of an endpoint URL for use
// as a config key.
func extractDomainFromEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return endpoint
	}

	return parsed.Host
}
