package ninja

import (
	"context"
	"time"
)

// Client is the top-level interface for the NinjaRMM API.
type Client interface {
	Organizations() OrganizationsClient
	Devices() DevicesClient
	Queries() QueriesClient
	Alerts() AlertsClient
	Activities() ActivitiesClient

	// GetToken returns the current access token.
	GetToken(ctx context.Context) (string, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a ninja.Client.
//
// # Authentication precedence
//
// The concrete client implementation applies the following precedence:
//  1. AccessToken: if set, it is used directly as a static Bearer token.
//  2. ClientID/ClientSecret: uses the OAuth2 client_credentials grant with
//     Scope (default "monitoring management control"). Tokens are cached
//     and refreshed before expiry. If RefreshToken is also provided, the
//     refresh_token grant is preferred for renewal.
//
// Credentials are sent form-encoded in the token request body, which is
// what the NinjaRMM token endpoint expects.
//
// # Token URL
//
// If TokenURL is empty, it defaults to APIEndpoint + "/ws/oauth/token".
//
// # Timeouts and retries
//
// Per-request timeouts should generally be controlled via context passed
// to client methods. Rate limited (429) and 5xx responses are retried with
// backoff, honoring Retry-After; tune via RetryMax/RetryWaitMin/RetryWaitMax.
type Config struct {
	// APIEndpoint: base URL for the API, e.g. "https://app.ninjarmm.com"
	// or a regional host like "https://eu.ninjarmm.com". ninjaclient.New
	// normalizes this value by trimming a trailing slash and adding
	// "https://" if no scheme is present.
	APIEndpoint string

	// Authentication options (provide one)
	// ClientID: OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret: OAuth2 client secret used with ClientID.
	ClientSecret string
	// RefreshToken: optional refresh token used to renew access tokens.
	RefreshToken string
	// AccessToken: if set, used directly as a Bearer token.
	AccessToken string
	// TokenURL: full OAuth2 token endpoint. Defaults to
	// APIEndpoint + "/ws/oauth/token" when empty.
	TokenURL string
	// Scope: OAuth2 scope for the client_credentials grant. Defaults to
	// "monitoring management control".
	Scope string

	// Optional configurations
	// HTTPTimeout: optional default HTTP timeout where supported.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (5xx,
	// 429, connection errors). If 0, a sensible default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// PageSize: default page size for ListAll/Iterate when PageOptions
	// are not provided. Zero uses the built-in default of 100.
	PageSize int
	// ConvertTimestamps: when true, epoch timestamps in loosely typed
	// query rows are converted to ISO 8601 strings.
	ConvertTimestamps bool
	// Cache: optional response cache configuration for GET requests.
	Cache *CacheConfig
}
