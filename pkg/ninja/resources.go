package ninja

import "context"

// OrganizationsClient provides access to organization operations.
type OrganizationsClient interface {
	// List fetches a single page of organizations.
	List(ctx context.Context, params *QueryParams) ([]Organization, error)
	// ListAll fetches every organization, following offset pagination.
	ListAll(ctx context.Context, opts *PageOptions) ([]Organization, error)
	// Iterate returns a lazy iterator over all organizations.
	Iterate(ctx context.Context, opts *PageOptions) *PageIterator[Organization]
	Get(ctx context.Context, organizationID int) (*Organization, error)
	Create(ctx context.Context, request *OrganizationCreateRequest) (*Organization, error)
	Update(ctx context.Context, organizationID int, request *OrganizationUpdateRequest) (*Organization, error)
	Delete(ctx context.Context, organizationID int) error
}

// DeviceFilter narrows device listings.
type DeviceFilter struct {
	// OrgFilter is the organization filter expression (of).
	OrgFilter string
	// DeviceFilter is the device filter expression (df).
	DeviceFilter string
	// Expand names related resources to inline, e.g. "organization".
	Expand string
	// IncludeBackupUsage requests backup usage data per device.
	IncludeBackupUsage bool
}

// DevicesClient provides access to device operations.
type DevicesClient interface {
	List(ctx context.Context, params *QueryParams) ([]Device, error)
	ListAll(ctx context.Context, filter *DeviceFilter, opts *PageOptions) ([]Device, error)
	Iterate(ctx context.Context, filter *DeviceFilter, opts *PageOptions) *PageIterator[Device]
	Get(ctx context.Context, deviceID int) (*Device, error)
	// SearchAll fetches every device matching a free-text query, following
	// cursor pagination.
	SearchAll(ctx context.Context, query string, opts *PageOptions) ([]Device, error)
	IterateSearch(ctx context.Context, query string, opts *PageOptions) *PageIterator[Device]
}

// WindowsServicesFilter narrows the windows-services query.
type WindowsServicesFilter struct {
	// DeviceFilter is the device filter expression (df).
	DeviceFilter string
	// Name filters by service name.
	Name string
	// State filters by service state, e.g. "RUNNING".
	State string
}

// QueriesClient provides access to reporting query endpoints. All queries
// are cursor-paginated and return loosely typed rows.
type QueriesClient interface {
	WindowsServices(ctx context.Context, filter *WindowsServicesFilter, opts *PageOptions) ([]QueryRow, error)
	IterateWindowsServices(ctx context.Context, filter *WindowsServicesFilter, opts *PageOptions) *PageIterator[QueryRow]
	CustomFields(ctx context.Context, deviceFilter string, opts *PageOptions) ([]QueryRow, error)
	IterateCustomFields(ctx context.Context, deviceFilter string, opts *PageOptions) *PageIterator[QueryRow]
	OSPatches(ctx context.Context, deviceFilter string, opts *PageOptions) ([]QueryRow, error)
	IterateOSPatches(ctx context.Context, deviceFilter string, opts *PageOptions) *PageIterator[QueryRow]
}

// AlertsClient provides access to alert operations.
type AlertsClient interface {
	List(ctx context.Context, params *QueryParams) ([]Alert, error)
	// Reset clears a triggered alert by its UID.
	Reset(ctx context.Context, uid string) error
}

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	// DeviceFilter is the device filter expression (df).
	DeviceFilter string
	// Class filters by activity class, e.g. "DEVICE".
	Class string
	// Type filters by activity type.
	Type string
	// Status filters by status code.
	Status string
	// NewerThan bounds results to activities after this activity ID.
	NewerThan int
	// OlderThan bounds results to activities before this activity ID.
	// Ignored on continuation pages, where the pagination state supplies
	// the bound.
	OlderThan int
}

// ActivitiesClient provides access to the activity log. Pagination walks
// backwards through the log: each page's continuation token is the oldest
// activity identifier, passed as olderThan.
type ActivitiesClient interface {
	List(ctx context.Context, filter *ActivityFilter, params *QueryParams) (*ActivityList, error)
	ListAll(ctx context.Context, filter *ActivityFilter, opts *PageOptions) ([]Activity, error)
	Iterate(ctx context.Context, filter *ActivityFilter, opts *PageOptions) *PageIterator[Activity]
}
