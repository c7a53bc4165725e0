package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rmmkit/ninja/internal/constants"
	"github.com/rmmkit/ninja/internal/http"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// AlertsClient implements ninja.AlertsClient.
type AlertsClient struct {
	httpClient *http.Client
}

// NewAlertsClient creates a new alerts client.
func NewAlertsClient(httpClient *http.Client) *AlertsClient {
	return &AlertsClient{httpClient: httpClient}
}

// List fetches currently triggered alerts.
func (c *AlertsClient) List(ctx context.Context, params *ninja.QueryParams) ([]ninja.Alert, error) {
	if params == nil {
		params = ninja.NewQueryParams()
	}

	resp, err := c.httpClient.Get(ctx, "/v2/alerts", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}

	var alerts []ninja.Alert

	err = json.Unmarshal(resp.Body, &alerts)
	if err != nil {
		return nil, fmt.Errorf("parsing alerts response: %w", err)
	}

	return alerts, nil
}

// Reset clears a triggered alert by its UID.
func (c *AlertsClient) Reset(ctx context.Context, uid string) error {
	if uid == "" {
		return constants.ErrAlertUIDRequired
	}

	_, err := c.httpClient.Delete(ctx, "/v2/alert/"+uid)
	if err != nil {
		return fmt.Errorf("resetting alert: %w", err)
	}

	return nil
}
