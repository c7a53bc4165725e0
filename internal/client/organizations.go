package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rmmkit/ninja/internal/http"
	"github.com/rmmkit/ninja/pkg/ninja"
)

// OrganizationsClient implements ninja.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *http.Client
	pageSize   int
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *http.Client, pageSize int) *OrganizationsClient {
	return &OrganizationsClient{httpClient: httpClient, pageSize: pageSize}
}

// List fetches a single page of organizations.
func (c *OrganizationsClient) List(ctx context.Context, params *ninja.QueryParams) ([]ninja.Organization, error) {
	if params == nil {
		params = ninja.NewQueryParams()
	}

	resp, err := c.httpClient.Get(ctx, "/v2/organizations", params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	var orgs []ninja.Organization

	err = json.Unmarshal(resp.Body, &orgs)
	if err != nil {
		return nil, fmt.Errorf("parsing organizations response: %w", err)
	}

	return orgs, nil
}

// ListAll fetches every organization, following offset pagination.
func (c *OrganizationsClient) ListAll(ctx context.Context, opts *ninja.PageOptions) ([]ninja.Organization, error) {
	return c.Iterate(ctx, opts).All()
}

// Iterate returns a lazy iterator over all organizations. No request is
// issued until the first item is pulled.
func (c *OrganizationsClient) Iterate(ctx context.Context, opts *ninja.PageOptions) *ninja.PageIterator[ninja.Organization] {
	opts = withDefaultPageSize(opts, c.pageSize)

	return ninja.NewAfterIterator(ctx, c.fetchPage, organizationID, opts)
}

func (c *OrganizationsClient) fetchPage(ctx context.Context, pageSize int, after string) ([]ninja.Organization, error) {
	params := ninja.NewQueryParams().WithPageSize(pageSize)
	if after != "" {
		params = params.WithAfter(after)
	}

	return c.List(ctx, params)
}

func organizationID(org ninja.Organization) (string, bool) {
	if org.ID == 0 {
		return "", false
	}

	return strconv.Itoa(org.ID), true
}

// Get fetches a single organization by ID.
func (c *OrganizationsClient) Get(ctx context.Context, organizationID int) (*ninja.Organization, error) {
	resp, err := c.httpClient.Get(ctx, "/v2/organization/"+strconv.Itoa(organizationID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	var org ninja.Organization

	err = json.Unmarshal(resp.Body, &org)
	if err != nil {
		return nil, fmt.Errorf("parsing organization response: %w", err)
	}

	return &org, nil
}

// Create creates a new organization.
func (c *OrganizationsClient) Create(ctx context.Context, request *ninja.OrganizationCreateRequest) (*ninja.Organization, error) {
	resp, err := c.httpClient.Post(ctx, "/v2/organizations", request)
	if err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	var org ninja.Organization

	err = json.Unmarshal(resp.Body, &org)
	if err != nil {
		return nil, fmt.Errorf("parsing organization response: %w", err)
	}

	return &org, nil
}

// Update modifies an existing organization.
func (c *OrganizationsClient) Update(ctx context.Context, organizationID int, request *ninja.OrganizationUpdateRequest) (*ninja.Organization, error) {
	resp, err := c.httpClient.Patch(ctx, "/v2/organization/"+strconv.Itoa(organizationID), request)
	if err != nil {
		return nil, fmt.Errorf("updating organization: %w", err)
	}

	var org ninja.Organization

	err = json.Unmarshal(resp.Body, &org)
	if err != nil {
		return nil, fmt.Errorf("parsing organization response: %w", err)
	}

	return &org, nil
}

// Delete removes an organization.
func (c *OrganizationsClient) Delete(ctx context.Context, organizationID int) error {
	_, err := c.httpClient.Delete(ctx, "/v2/organization/"+strconv.Itoa(organizationID))
	if err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}

	return nil
}

// withDefaultPageSize applies the client-wide page size when the caller did
// not provide options.
func withDefaultPageSize(opts *ninja.PageOptions, pageSize int) *ninja.PageOptions {
	if opts != nil || pageSize <= 0 {
		return opts
	}

	return &ninja.PageOptions{PageSize: pageSize}
}
