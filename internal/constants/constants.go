package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits,
	// such as honoring Retry-After on rate limited requests.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the default number of records requested per page.
	DefaultPageSize = 100

	// MaxPageSize is the largest page size the API accepts.
	MaxPageSize = 1000

	// MaxPages bounds pagination loops against runaway continuation state.
	MaxPages = 10000
)

// OAuth2 constants.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	// Tokens within this window of expiry are refreshed eagerly.
	TokenExpirationBuffer = 30 * time.Second

	// DefaultTokenScope is the scope requested for client credentials grants.
	DefaultTokenScope = "monitoring management control"

	// TokenPath is the OAuth2 token endpoint path on the API host.
	TokenPath = "/ws/oauth/token"
)

// Cache sizes and TTLs.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// CacheMinTTL is the minimum cache time-to-live.
	CacheMinTTL = 30 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// OrganizationsCacheTTL is the TTL for organization responses.
	OrganizationsCacheTTL = 10 * time.Minute

	// DevicesCacheTTL is the TTL for device responses.
	DevicesCacheTTL = 2 * time.Minute
)

// Channel buffer sizes.
const (
	// BufferSize is the default buffer size for channels.
	BufferSize = 100

	// SmallBufferSize is used for smaller buffers.
	SmallBufferSize = 10
)

// Display and formatting constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// StringTruncationLength is the default length for truncating strings.
	StringTruncationLength = 80
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for tabular output format.
	FormatTable = "table"
)

// Timestamp conversion bounds.
const (
	// MinEpochSeconds is the smallest value treated as an epoch timestamp (1973-03-03).
	MinEpochSeconds = 100000000

	// MaxEpochSeconds is the largest value treated as an epoch timestamp (2286-11-20).
	MaxEpochSeconds = 9999999999
)
