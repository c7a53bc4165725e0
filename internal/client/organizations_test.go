package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	. "github.com/rmmkit/ninja/internal/client"
	"github.com/rmmkit/ninja/pkg/ninja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationsClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[ninja.Organization]{
		{
			Name:         "successful get",
			ID:           42,
			ExpectedPath: "/v2/organization/42",
			StatusCode:   http.StatusOK,
			Response:     &ninja.Organization{ID: 42, Name: "Acme Corp"},
		},
		{
			Name:         "organization not found",
			ID:           999,
			ExpectedPath: "/v2/organization/999",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "Resource not found",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, int) (*ninja.Organization, error) {
		return c.Organizations().Get
	})
}

func TestOrganizationsClient_Create(t *testing.T) {
	t.Parallel()

	tests := []TestCreateOperation[ninja.OrganizationCreateRequest, ninja.Organization]{
		{
			Name:         "successful create",
			Request:      &ninja.OrganizationCreateRequest{Name: "Acme Corp"},
			ExpectedPath: "/v2/organizations",
			StatusCode:   http.StatusOK,
			Response:     &ninja.Organization{ID: 7, Name: "Acme Corp"},
		},
		{
			Name:         "duplicate name",
			Request:      &ninja.OrganizationCreateRequest{Name: "Acme Corp"},
			ExpectedPath: "/v2/organizations",
			StatusCode:   http.StatusConflict,
			Response:     map[string]string{"resultCode": "FAILURE", "errorMessage": "Organization already exists"},
			WantErr:      true,
			ErrMessage:   "already exists",
		},
	}

	RunCreateTests(t, tests, func(c *Client) func(context.Context, *ninja.OrganizationCreateRequest) (*ninja.Organization, error) {
		return c.Organizations().Create
	})
}

func TestOrganizationsClient_Update(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v2/organization/42", request.URL.Path)
		assert.Equal(t, "PATCH", request.Method)

		var req ninja.OrganizationUpdateRequest

		_ = json.NewDecoder(request.Body).Decode(&req)
		require.NotEmpty(t, req.Name)
		assert.Equal(t, "Renamed Corp", req.Name)

		_ = json.NewEncoder(writer).Encode(ninja.Organization{ID: 42, Name: "Renamed Corp"})
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	org, err := client.Organizations().Update(context.Background(), 42, &ninja.OrganizationUpdateRequest{
		Name: "Renamed Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Corp", org.Name)
}

func TestOrganizationsClient_Delete(t *testing.T) {
	t.Parallel()

	tests := []TestDeleteOperation{
		{
			Name:         "successful delete",
			ID:           42,
			ExpectedPath: "/v2/organization/42",
			StatusCode:   http.StatusNoContent,
		},
		{
			Name:         "organization not found",
			ID:           999,
			ExpectedPath: "/v2/organization/999",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "Resource not found",
		},
	}

	RunDeleteTests(t, tests, func(c *Client) func(context.Context, int) error {
		return c.Organizations().Delete
	})
}

func TestOrganizationsClient_ListAll(t *testing.T) {
	t.Parallel()

	// 250 organizations served in pages keyed by the "after" parameter.
	total := 250
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++

		assert.Equal(t, "/v2/organizations", request.URL.Path)

		pageSize, _ := strconv.Atoi(request.URL.Query().Get("pageSize"))
		after, _ := strconv.Atoi(request.URL.Query().Get("after"))

		var orgs []ninja.Organization

		for id := after + 1; id <= total && len(orgs) < pageSize; id++ {
			orgs = append(orgs, ninja.Organization{ID: id, Name: "Org " + strconv.Itoa(id)})
		}

		_ = json.NewEncoder(writer).Encode(orgs)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	orgs, err := client.Organizations().ListAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, orgs, total)
	assert.Equal(t, 1, orgs[0].ID)
	assert.Equal(t, total, orgs[total-1].ID)
	// 100, 100, 50: the short last page ends pagination.
	assert.Equal(t, 3, requests)
}

func TestOrganizationsClient_Iterate_EarlyStop(t *testing.T) {
	t.Parallel()

	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requests++

		pageSize, _ := strconv.Atoi(request.URL.Query().Get("pageSize"))
		after, _ := strconv.Atoi(request.URL.Query().Get("after"))

		orgs := make([]ninja.Organization, 0, pageSize)
		for id := after + 1; len(orgs) < pageSize; id++ {
			orgs = append(orgs, ninja.Organization{ID: id})
		}

		_ = json.NewEncoder(writer).Encode(orgs)
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	it := client.Organizations().Iterate(context.Background(), &ninja.PageOptions{PageSize: 10})

	seen := 0
	for it.HasNext() && seen < 5 {
		_, err := it.Next()
		require.NoError(t, err)

		seen++
	}

	assert.Equal(t, 5, seen)
	assert.Equal(t, 1, requests)
}
