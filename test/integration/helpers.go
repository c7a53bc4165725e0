//go:build integration

// Package integration holds tests that run against a live NinjaRMM API.
// They are skipped unless credentials are provided via environment:
//
//	NINJA_TEST_ENDPOINT      API endpoint, e.g. https://app.ninjarmm.com
//	NINJA_TEST_CLIENT_ID     OAuth2 client ID
//	NINJA_TEST_CLIENT_SECRET OAuth2 client secret
//
// Run with: go test -tags integration ./test/integration/...
package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/rmmkit/ninja/pkg/ninjaclient"
)

// TestConfig holds connection details for the live API under test.
type TestConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
}

// LoadTestConfig reads test configuration from the environment.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:     os.Getenv("NINJA_TEST_ENDPOINT"),
		ClientID:     os.Getenv("NINJA_TEST_CLIENT_ID"),
		ClientSecret: os.Getenv("NINJA_TEST_CLIENT_SECRET"),
	}
}

// SkipIfMissingConfig skips the test when credentials are not configured.
func (c *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if c.Endpoint == "" || c.ClientID == "" || c.ClientSecret == "" {
		t.Skip("integration test config missing, set NINJA_TEST_ENDPOINT, NINJA_TEST_CLIENT_ID, NINJA_TEST_CLIENT_SECRET")
	}
}

// NewTestClient builds a client against the configured live API.
func (c *TestConfig) NewTestClient(t *testing.T) ninja.Client {
	t.Helper()

	client, err := ninjaclient.New(context.Background(), &ninja.Config{
		APIEndpoint:  c.Endpoint,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return client
}

// GenerateTestName returns a unique name for resources created during tests.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
