package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rmmkit/ninja/internal/http"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// QueriesClient implements ninja.QueriesClient. Every query endpoint is
// cursor-paginated and returns loosely typed rows.
type QueriesClient struct {
	httpClient *http.Client
	pageSize   int
}

// NewQueriesClient creates a new queries client.
func NewQueriesClient(httpClient *http.Client, pageSize int) *QueriesClient {
	return &QueriesClient{httpClient: httpClient, pageSize: pageSize}
}

// WindowsServices fetches all windows service rows matching the filter.
func (c *QueriesClient) WindowsServices(ctx context.Context, filter *ninja.WindowsServicesFilter, opts *ninja.PageOptions) ([]ninja.QueryRow, error) {
	return c.IterateWindowsServices(ctx, filter, opts).All()
}

// IterateWindowsServices returns a lazy iterator over windows service rows.
func (c *QueriesClient) IterateWindowsServices(ctx context.Context, filter *ninja.WindowsServicesFilter, opts *ninja.PageOptions) *ninja.PageIterator[ninja.QueryRow] {
	params := ninja.NewQueryParams()

	if filter != nil {
		if filter.DeviceFilter != "" {
			params = params.WithDeviceFilter(filter.DeviceFilter)
		}

		if filter.Name != "" {
			params = params.WithFilter("name", filter.Name)
		}

		if filter.State != "" {
			params = params.WithFilter("state", filter.State)
		}
	}

	return c.iterateQuery(ctx, "/v2/queries/windows-services", params, opts)
}

// CustomFields fetches all custom field rows matching the device filter.
func (c *QueriesClient) CustomFields(ctx context.Context, deviceFilter string, opts *ninja.PageOptions) ([]ninja.QueryRow, error) {
	return c.IterateCustomFields(ctx, deviceFilter, opts).All()
}

// IterateCustomFields returns a lazy iterator over custom field rows.
func (c *QueriesClient) IterateCustomFields(ctx context.Context, deviceFilter string, opts *ninja.PageOptions) *ninja.PageIterator[ninja.QueryRow] {
	return c.iterateQuery(ctx, "/v2/queries/custom-fields", deviceFilterParams(deviceFilter), opts)
}

// OSPatches fetches all OS patch rows matching the device filter.
func (c *QueriesClient) OSPatches(ctx context.Context, deviceFilter string, opts *ninja.PageOptions) ([]ninja.QueryRow, error) {
	return c.IterateOSPatches(ctx, deviceFilter, opts).All()
}

// IterateOSPatches returns a lazy iterator over OS patch rows.
func (c *QueriesClient) IterateOSPatches(ctx context.Context, deviceFilter string, opts *ninja.PageOptions) *ninja.PageIterator[ninja.QueryRow] {
	return c.iterateQuery(ctx, "/v2/queries/os-patches", deviceFilterParams(deviceFilter), opts)
}

// iterateQuery builds a cursor iterator over a query endpoint. The base
// params carry the endpoint's filters; page size and cursor are layered on
// per request.
func (c *QueriesClient) iterateQuery(ctx context.Context, path string, base *ninja.QueryParams, opts *ninja.PageOptions) *ninja.PageIterator[ninja.QueryRow] {
	opts = withDefaultPageSize(opts, c.pageSize)

	fetch := func(ctx context.Context, pageSize int, cursor string) (*ninja.QueryResult[ninja.QueryRow], error) {
		values := base.ToValues()
		values.Set("pageSize", fmt.Sprintf("%d", pageSize))

		if cursor != "" {
			values.Set("cursor", cursor)
		}

		resp, err := c.httpClient.Get(ctx, path, values)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", path, err)
		}

		var result ninja.QueryResult[ninja.QueryRow]

		err = json.Unmarshal(resp.Body, &result)
		if err != nil {
			return nil, fmt.Errorf("parsing query response: %w", err)
		}

		return &result, nil
	}

	return ninja.NewCursorIterator(ctx, fetch, opts)
}

func deviceFilterParams(deviceFilter string) *ninja.QueryParams {
	params := ninja.NewQueryParams()
	if deviceFilter != "" {
		params = params.WithDeviceFilter(deviceFilter)
	}

	return params
}
