package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rmmkit/ninja/internal/http"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// DevicesClient implements ninja.DevicesClient.
type DevicesClient struct {
	httpClient *http.Client
	pageSize   int
}

// NewDevicesClient creates a new devices client.
func NewDevicesClient(httpClient *http.Client, pageSize int) *DevicesClient {
	return &DevicesClient{httpClient: httpClient, pageSize: pageSize}
}

// List fetches a single page of devices.
func (c *DevicesClient) List(ctx context.Context, params *ninja.QueryParams) ([]ninja.Device, error) {
	if params == nil {
		params = ninja.NewQueryParams()
	}

	resp, err := c.httpClient.Get(ctx, "/v2/devices", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	var devices []ninja.Device

	err = json.Unmarshal(resp.Body, &devices)
	if err != nil {
		return nil, fmt.Errorf("parsing devices response: %w", err)
	}

	return devices, nil
}

// ListAll fetches every device matching the filter, following offset
// pagination.
func (c *DevicesClient) ListAll(ctx context.Context, filter *ninja.DeviceFilter, opts *ninja.PageOptions) ([]ninja.Device, error) {
	return c.Iterate(ctx, filter, opts).All()
}

// Iterate returns a lazy iterator over all devices matching the filter.
func (c *DevicesClient) Iterate(ctx context.Context, filter *ninja.DeviceFilter, opts *ninja.PageOptions) *ninja.PageIterator[ninja.Device] {
	opts = withDefaultPageSize(opts, c.pageSize)

	fetch := func(ctx context.Context, pageSize int, after string) ([]ninja.Device, error) {
		params := deviceListParams(filter).WithPageSize(pageSize)
		if after != "" {
			params = params.WithAfter(after)
		}

		return c.List(ctx, params)
	}

	return ninja.NewAfterIterator(ctx, fetch, deviceID, opts)
}

// Get fetches a single device by ID.
func (c *DevicesClient) Get(ctx context.Context, deviceID int) (*ninja.Device, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/device/"+strconv.Itoa(deviceID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting device: %w", err)
	}

	var device ninja.Device

	err = json.Unmarshal(resp.Body, &device)
	if err != nil {
		return nil, fmt.Errorf("parsing device response: %w", err)
	}

	return &device, nil
}

// SearchAll fetches every device matching a free-text query, following
// cursor pagination.
func (c *DevicesClient) SearchAll(ctx context.Context, query string, opts *ninja.PageOptions) ([]ninja.Device, error) {
	return c.IterateSearch(ctx, query, opts).All()
}

// IterateSearch returns a lazy iterator over device search results.
func (c *DevicesClient) IterateSearch(ctx context.Context, query string, opts *ninja.PageOptions) *ninja.PageIterator[ninja.Device] {
	opts = withDefaultPageSize(opts, c.pageSize)

	fetch := func(ctx context.Context, pageSize int, cursor string) (*ninja.QueryResult[ninja.Device], error) {
		params := ninja.NewQueryParams().WithSearchQuery(query).WithPageSize(pageSize)
		if cursor != "" {
			params = params.WithCursor(cursor)
		}

		resp, err := c.httpClient.Get(ctx, "/v2/devices/search", params.ToValues())
		if err != nil {
			return nil, fmt.Errorf("searching devices: %w", err)
		}

		var result ninja.DeviceSearchResult

		err = json.Unmarshal(resp.Body, &result)
		if err != nil {
			return nil, fmt.Errorf("parsing device search response: %w", err)
		}

		return &result, nil
	}

	return ninja.NewCursorIterator(ctx, fetch, opts)
}

func deviceListParams(filter *ninja.DeviceFilter) *ninja.QueryParams {
	params := ninja.NewQueryParams()
	if filter == nil {
		return params
	}

	if filter.OrgFilter != "" {
		params = params.WithOrgFilter(filter.OrgFilter)
	}

	if filter.DeviceFilter != "" {
		params = params.WithDeviceFilter(filter.DeviceFilter)
	}

	if filter.Expand != "" {
		params = params.WithExpand(filter.Expand)
	}

	if filter.IncludeBackupUsage {
		params = params.WithBackupUsage()
	}

	return params
}

func deviceID(device ninja.Device) (string, bool) {
	if device.ID == 0 {
		return "", false
	}

	return strconv.Itoa(device.ID), true
}
