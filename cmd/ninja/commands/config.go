package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rmmkit/ninja/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Multi-instance configuration, keyed by API host
	APIs       map[string]*APIConfig `json:"apis,omitempty"        yaml:"apis,omitempty"`
	CurrentAPI string                `json:"current_api,omitempty" yaml:"current_api,omitempty"`

	// Global settings
	Output   string `json:"output"              yaml:"output"`
	PageSize int    `json:"page_size,omitempty" yaml:"page_size,omitempty"`
}

// APIConfig represents configuration for a single NinjaRMM instance.
type APIConfig struct {
	Endpoint       string     `json:"endpoint"                   yaml:"endpoint"`
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage ninja CLI configuration including API instances and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			masked.APIs = make(map[string]*APIConfig, len(config.APIs))

			for name, api := range config.APIs {
				apiCopy := *api
				if apiCopy.ClientSecret != "" {
					apiCopy.ClientSecret = constants.MaskedSecret
				}

				if apiCopy.Token != "" {
					apiCopy.Token = constants.MaskedSecret
				}

				if apiCopy.RefreshToken != "" {
					apiCopy.RefreshToken = constants.MaskedSecret
				}

				masked.APIs[name] = &apiCopy
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(masked)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(masked)
			default:
				return displayConfigTable(&masked)
			}
		},
	}
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Value")

	_ = table.Append("current_api", defaultString(config.CurrentAPI, constants.NotAvailable))
	_ = table.Append("output", defaultString(config.Output, "table"))

	for name, api := range config.APIs {
		_ = table.Append("api."+name+".endpoint", api.Endpoint)

		if api.ClientID != "" {
			_ = table.Append("api."+name+".client_id", api.ClientID)
		}

		if api.TokenExpiresAt != nil {
			_ = table.Append("api."+name+".token_expires_at", api.TokenExpiresAt.Format(time.RFC3339))
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch args[0] {
			case "output":
				if args[1] != constants.FormatTable && args[1] != constants.FormatJSON && args[1] != constants.FormatYAML {
					return constants.ErrInvalidOutputFormat
				}

				config.Output = args[1]
			case "current_api":
				if _, exists := config.APIs[args[1]]; !exists {
					return fmt.Errorf("%w: %s", ErrAPINotConfigured, args[1])
				}

				config.CurrentAPI = args[1]
			case "page_size":
				size, err := parsePageSize(args[1])
				if err != nil {
					return err
				}

				config.PageSize = size
			default:
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, args[0])
			}

			return saveConfigStruct(config)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			switch args[0] {
			case "output":
				config.Output = ""
			case "current_api":
				config.CurrentAPI = ""
			case "page_size":
				config.PageSize = 0
			default:
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, args[0])
			}

			return saveConfigStruct(config)
		},
	}
}

// configFilePath returns the active config file location.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}

	return filepath.Join(home, ".ninja", "config.yml")
}

// loadConfig reads the CLI config file, returning an empty config when the
// file does not exist yet.
func loadConfig() *Config {
	config := &Config{}

	data, err := os.ReadFile(configFilePath())
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfigStruct writes the CLI config file.
func saveConfigStruct(config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	path := configFilePath()

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// currentAPIConfig returns the active API config, or nil when none is set.
func currentAPIConfig(config *Config) *APIConfig {
	if config.CurrentAPI == "" {
		return nil
	}

	return config.APIs[config.CurrentAPI]
}
