package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/rmmkit/ninja/internal/client"
	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v2/alerts", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "offline", request.URL.Query().Get("df"))

		_ = json.NewEncoder(writer).Encode([]ninja.Alert{
			{UID: "alert-1", DeviceID: 1001, Message: "Disk space low"},
			{UID: "alert-2", DeviceID: 1002, Message: "Service stopped"},
		})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	alerts, err := client.Alerts().List(context.Background(), ninja.NewQueryParams().WithDeviceFilter("offline"))
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "alert-1", alerts[0].UID)
	assert.Equal(t, 1002, alerts[1].DeviceID)
}

func TestAlertsClient_Reset(t *testing.T) {
	t.Parallel()
	t.Run("successful reset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v2/alert/alert-42", request.URL.Path)
			assert.Equal(t, "DELETE", request.Method)
			writer.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		err := client.Alerts().Reset(context.Background(), "alert-42")
		require.NoError(t, err)
	})

	t.Run("empty uid rejected", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient("http://unused.invalid")

		err := client.Alerts().Reset(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alert UID is required")
	})

	t.Run("alert not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{
				"resultCode":   "FAILURE",
				"errorMessage": "Alert not found",
			})
		}))
		defer server.Close()

		client := NewTestClient(server.URL)

		err := client.Alerts().Reset(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, ninja.IsNotFound(err))
	})
}
