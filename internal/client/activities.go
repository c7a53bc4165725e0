package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rmmkit/ninja/internal/http"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// ActivitiesClient implements ninja.ActivitiesClient. The activity log is
// walked backwards: each page's continuation token is the oldest activity
// identifier on the page, passed as olderThan on the next request.
type ActivitiesClient struct {
	httpClient *http.Client
	pageSize   int
}

// NewActivitiesClient creates a new activities client.
func NewActivitiesClient(httpClient *http.Client, pageSize int) *ActivitiesClient {
	return &ActivitiesClient{httpClient: httpClient, pageSize: pageSize}
}

// List fetches a single page of the activity log.
func (c *ActivitiesClient) List(ctx context.Context, filter *ninja.ActivityFilter, params *ninja.QueryParams) (*ninja.ActivityList, error) {
	if params == nil {
		params = ninja.NewQueryParams()
	}

	values := params.ToValues()
	applyActivityFilter(values, filter)

	resp, err := c.httpClient.Get(ctx, "/v2/activities", values)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	var list ninja.ActivityList

	err = json.Unmarshal(resp.Body, &list)
	if err != nil {
		return nil, fmt.Errorf("parsing activities response: %w", err)
	}

	return &list, nil
}

// ListAll fetches the activity log matching the filter in full.
func (c *ActivitiesClient) ListAll(ctx context.Context, filter *ninja.ActivityFilter, opts *ninja.PageOptions) ([]ninja.Activity, error) {
	return c.Iterate(ctx, filter, opts).All()
}

// Iterate returns a lazy iterator over the activity log, newest first.
func (c *ActivitiesClient) Iterate(ctx context.Context, filter *ninja.ActivityFilter, opts *ninja.PageOptions) *ninja.PageIterator[ninja.Activity] {
	opts = withDefaultPageSize(opts, c.pageSize)

	fetch := func(ctx context.Context, pageSize int, olderThan string) ([]ninja.Activity, error) {
		params := ninja.NewQueryParams().WithPageSize(pageSize)
		if olderThan != "" {
			params = params.WithFilter("olderThan", olderThan)
		}

		list, err := c.List(ctx, filter, params)
		if err != nil {
			return nil, err
		}

		return list.Activities, nil
	}

	return ninja.NewAfterIterator(ctx, fetch, activityID, opts)
}

func activityID(activity ninja.Activity) (string, bool) {
	if activity.ID == 0 {
		return "", false
	}

	return strconv.Itoa(activity.ID), true
}

func applyActivityFilter(values url.Values, filter *ninja.ActivityFilter) {
	if filter == nil {
		return
	}

	if filter.DeviceFilter != "" {
		values.Set("df", filter.DeviceFilter)
	}

	if filter.Class != "" {
		values.Set("class", filter.Class)
	}

	if filter.Type != "" {
		values.Set("type", filter.Type)
	}

	if filter.Status != "" {
		values.Set("status", filter.Status)
	}

	if filter.NewerThan > 0 {
		values.Set("newerThan", strconv.Itoa(filter.NewerThan))
	}

	// Pagination state takes precedence over a caller-supplied bound.
	if filter.OlderThan > 0 && values.Get("olderThan") == "" {
		values.Set("olderThan", strconv.Itoa(filter.OlderThan))
	}
}
