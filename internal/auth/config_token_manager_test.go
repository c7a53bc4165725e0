package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	calls        int
	endpoint     string
	token        string
	expiresAt    time.Time
	refreshToken string
	err          error
}

func (p *recordingPersister) UpdateAPIToken(endpoint, token string, expiresAt time.Time, refreshToken string) error {
	p.calls++
	p.endpoint = endpoint
	p.token = token
	p.expiresAt = expiresAt
	p.refreshToken = refreshToken

	return p.err
}

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Token{
			AccessToken:  "rotated-token",
			RefreshToken: "rotated-refresh-token",
			ExpiresIn:    3600,
			TokenType:    "bearer",
		})
	}))
}

func TestConfigTokenManager_GetToken(t *testing.T) {
	t.Run("reuses seeded token without persisting", func(t *testing.T) {
		persister := &recordingPersister{}
		manager := NewConfigTokenManager(&OAuth2Config{}, persister, "https://app.ninjarmm.com", "seeded-token", time.Now().Add(1*time.Hour))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "seeded-token", token)
		assert.Equal(t, 0, persister.calls)
	})

	t.Run("persists before returning when the token rotates", func(t *testing.T) {
		server := newTokenServer(t)
		defer server.Close()

		persister := &recordingPersister{}
		manager := NewConfigTokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/ws/oauth/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		}, persister, "https://app.ninjarmm.com", "stale-token", time.Now().Add(-1*time.Hour))

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "rotated-token", token)

		// The write must have landed by the time GetToken returns, or a
		// short command could exit before the config file is updated.
		assert.Equal(t, 1, persister.calls)
		assert.Equal(t, "https://app.ninjarmm.com", persister.endpoint)
		assert.Equal(t, "rotated-token", persister.token)
		assert.Equal(t, "rotated-refresh-token", persister.refreshToken)
	})

	t.Run("persist failure does not fail the request", func(t *testing.T) {
		server := newTokenServer(t)
		defer server.Close()

		persister := &recordingPersister{err: errors.New("disk full")}
		manager := NewConfigTokenManager(&OAuth2Config{
			TokenURL:     server.URL + "/ws/oauth/token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		}, persister, "https://app.ninjarmm.com", "", time.Time{})

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "rotated-token", token)
		assert.Equal(t, 1, persister.calls)
	})
}

func TestConfigTokenManager_RefreshToken(t *testing.T) {
	server := newTokenServer(t)
	defer server.Close()

	persister := &recordingPersister{}
	manager := NewConfigTokenManager(&OAuth2Config{
		TokenURL:     server.URL + "/ws/oauth/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, persister, "https://app.ninjarmm.com", "current-token", time.Now().Add(1*time.Hour))

	err := manager.RefreshToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, persister.calls)
	assert.Equal(t, "rotated-token", persister.token)

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", token)
	assert.Equal(t, 1, persister.calls)
}
