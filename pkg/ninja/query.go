package ninja

import (
	"net/url"
	"strconv"
)

// QueryParams represents query parameters for list endpoints. Field names
// map to the API's short parameter names: of (organization filter), df
// (device filter), q (search query).
type QueryParams struct {
	PageSize           int
	After              string
	Cursor             string
	OrgFilter          string
	DeviceFilter       string
	SearchQuery        string
	Expand             string
	IncludeBackupUsage bool

	// Filters holds additional parameters forwarded verbatim, such as
	// name and state on query endpoints.
	Filters map[string][]string
}

// NewQueryParams creates a new QueryParams instance.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithPageSize sets the page size.
func (q *QueryParams) WithPageSize(size int) *QueryParams {
	q.PageSize = size

	return q
}

// WithAfter sets the offset continuation token.
func (q *QueryParams) WithAfter(after string) *QueryParams {
	q.After = after

	return q
}

// WithCursor sets the cursor continuation token.
func (q *QueryParams) WithCursor(cursor string) *QueryParams {
	q.Cursor = cursor

	return q
}

// WithOrgFilter sets the organization filter (of).
func (q *QueryParams) WithOrgFilter(filter string) *QueryParams {
	q.OrgFilter = filter

	return q
}

// WithDeviceFilter sets the device filter (df).
func (q *QueryParams) WithDeviceFilter(filter string) *QueryParams {
	q.DeviceFilter = filter

	return q
}

// WithSearchQuery sets the search query (q).
func (q *QueryParams) WithSearchQuery(query string) *QueryParams {
	q.SearchQuery = query

	return q
}

// WithExpand sets the expand parameter.
func (q *QueryParams) WithExpand(expand string) *QueryParams {
	q.Expand = expand

	return q
}

// WithBackupUsage requests backup usage data on device responses.
func (q *QueryParams) WithBackupUsage() *QueryParams {
	q.IncludeBackupUsage = true

	return q
}

// WithFilter appends values for an arbitrary parameter.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts QueryParams to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	if q.After != "" {
		values.Set("after", q.After)
	}

	if q.Cursor != "" {
		values.Set("cursor", q.Cursor)
	}

	if q.OrgFilter != "" {
		values.Set("of", q.OrgFilter)
	}

	if q.DeviceFilter != "" {
		values.Set("df", q.DeviceFilter)
	}

	if q.SearchQuery != "" {
		values.Set("q", q.SearchQuery)
	}

	if q.Expand != "" {
		values.Set("expand", q.Expand)
	}

	if q.IncludeBackupUsage {
		values.Set("includeBackupUsage", "true")
	}

	for key, vals := range q.Filters {
		for _, val := range vals {
			values.Add(key, val)
		}
	}

	return values
}
