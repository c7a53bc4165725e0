package constants

import "errors"

// API and configuration errors.
var (
	ErrNoAPIConfigured     = errors.New("no API endpoint configured, set 'api' in the config file or pass --api")
	ErrNoCredentials       = errors.New("no credentials configured, run 'ninja login' or set client-id/client-secret")
	ErrFailedRetrieveToken = errors.New("failed to retrieve access token")
)

// Validation errors.
var (
	ErrInvalidOutputFormat    = errors.New("invalid output format, expected table, json, or yaml")
	ErrInvalidPageSize        = errors.New("page size must be between 1 and 1000")
	ErrOrganizationIDRequired = errors.New("organization ID is required")
	ErrDeviceIDRequired       = errors.New("device ID is required")
	ErrAlertUIDRequired       = errors.New("alert UID is required")
	ErrSearchQueryRequired    = errors.New("search query is required")
)

// File system errors.
var (
	ErrNotRegularFile             = errors.New("path is not a regular file")
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
)
