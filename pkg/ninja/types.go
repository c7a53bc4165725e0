package ninja

// Organization represents a NinjaRMM organization.
type Organization struct {
	ID               int                    `json:"id"                         yaml:"id"`
	Name             string                 `json:"name"                       yaml:"name"`
	Description      string                 `json:"description,omitempty"      yaml:"description,omitempty"`
	NodeApprovalMode string                 `json:"nodeApprovalMode,omitempty" yaml:"nodeApprovalMode,omitempty"`
	Tags             []string               `json:"tags,omitempty"             yaml:"tags,omitempty"`
	Fields           map[string]interface{} `json:"fields,omitempty"           yaml:"fields,omitempty"`
}

// OrganizationCreateRequest is the body for creating an organization.
type OrganizationCreateRequest struct {
	Name             string                 `json:"name"`
	Description      string                 `json:"description,omitempty"`
	NodeApprovalMode string                 `json:"nodeApprovalMode,omitempty"`
	Tags             []string               `json:"tags,omitempty"`
	Fields           map[string]interface{} `json:"fields,omitempty"`
}

// OrganizationUpdateRequest is the body for updating an organization.
type OrganizationUpdateRequest struct {
	Name             string                 `json:"name,omitempty"`
	Description      string                 `json:"description,omitempty"`
	NodeApprovalMode string                 `json:"nodeApprovalMode,omitempty"`
	Tags             []string               `json:"tags,omitempty"`
	Fields           map[string]interface{} `json:"fields,omitempty"`
}

// Device represents a NinjaRMM device (agent or monitored node).
type Device struct {
	ID             int           `json:"id"                       yaml:"id"`
	OrganizationID int           `json:"organizationId"           yaml:"organizationId"`
	LocationID     int           `json:"locationId,omitempty"     yaml:"locationId,omitempty"`
	NodeClass      string        `json:"nodeClass,omitempty"      yaml:"nodeClass,omitempty"`
	NodeRoleID     int           `json:"nodeRoleId,omitempty"     yaml:"nodeRoleId,omitempty"`
	SystemName     string        `json:"systemName,omitempty"     yaml:"systemName,omitempty"`
	DNSName        string        `json:"dnsName,omitempty"        yaml:"dnsName,omitempty"`
	DisplayName    string        `json:"displayName,omitempty"    yaml:"displayName,omitempty"`
	Offline        bool          `json:"offline"                  yaml:"offline"`
	Approved       bool          `json:"approved,omitempty"       yaml:"approved,omitempty"`
	Created        float64       `json:"created,omitempty"        yaml:"created,omitempty"`
	LastContact    float64       `json:"lastContact,omitempty"    yaml:"lastContact,omitempty"`
	LastUpdate     float64       `json:"lastUpdate,omitempty"     yaml:"lastUpdate,omitempty"`
	OS             *DeviceOS     `json:"os,omitempty"             yaml:"os,omitempty"`
	System         *DeviceSystem `json:"system,omitempty"         yaml:"system,omitempty"`
	BackupUsage    *BackupUsage  `json:"backupUsage,omitempty"    yaml:"backupUsage,omitempty"`
	References     *References   `json:"references,omitempty"     yaml:"references,omitempty"`
}

// DeviceOS holds operating system details, present when expanded.
type DeviceOS struct {
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Name         string `json:"name,omitempty"         yaml:"name,omitempty"`
	Architecture string `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	BuildNumber  string `json:"buildNumber,omitempty"  yaml:"buildNumber,omitempty"`
	ReleaseID    string `json:"releaseId,omitempty"    yaml:"releaseId,omitempty"`
}

// DeviceSystem holds hardware details, present when expanded.
type DeviceSystem struct {
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"        yaml:"model,omitempty"`
	BIOSSerial   string `json:"biosSerialNumber,omitempty" yaml:"biosSerialNumber,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty" yaml:"serialNumber,omitempty"`
}

// BackupUsage holds backup storage usage, present when requested.
type BackupUsage struct {
	CloudBytes int64 `json:"cloudBytes" yaml:"cloudBytes"`
	LocalBytes int64 `json:"localBytes" yaml:"localBytes"`
}

// References holds expanded related resources on a device.
type References struct {
	Organization *Organization `json:"organization,omitempty" yaml:"organization,omitempty"`
	Location     *Location     `json:"location,omitempty"     yaml:"location,omitempty"`
}

// Location represents an organization location.
type Location struct {
	ID             int    `json:"id"                    yaml:"id"`
	OrganizationID int    `json:"organizationId"        yaml:"organizationId"`
	Name           string `json:"name"                  yaml:"name"`
	Address        string `json:"address,omitempty"     yaml:"address,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Alert represents a triggered condition on a device.
type Alert struct {
	UID        string                 `json:"uid"                  yaml:"uid"`
	DeviceID   int                    `json:"deviceId"             yaml:"deviceId"`
	Message    string                 `json:"message,omitempty"    yaml:"message,omitempty"`
	CreateTime float64                `json:"createTime,omitempty" yaml:"createTime,omitempty"`
	UpdateTime float64                `json:"updateTime,omitempty" yaml:"updateTime,omitempty"`
	SourceType string                 `json:"sourceType,omitempty" yaml:"sourceType,omitempty"`
	SourceName string                 `json:"sourceName,omitempty" yaml:"sourceName,omitempty"`
	Subject    string                 `json:"subject,omitempty"    yaml:"subject,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"       yaml:"data,omitempty"`
}

// Activity represents an entry in the activity log.
type Activity struct {
	ID             int     `json:"id"                       yaml:"id"`
	ActivityTime   float64 `json:"activityTime,omitempty"   yaml:"activityTime,omitempty"`
	DeviceID       int     `json:"deviceId,omitempty"       yaml:"deviceId,omitempty"`
	ActivityType   string  `json:"activityType,omitempty"   yaml:"activityType,omitempty"`
	ActivityResult string  `json:"activityResult,omitempty" yaml:"activityResult,omitempty"`
	StatusCode     string  `json:"statusCode,omitempty"     yaml:"statusCode,omitempty"`
	Message        string  `json:"message,omitempty"        yaml:"message,omitempty"`
	SourceName     string  `json:"sourceName,omitempty"     yaml:"sourceName,omitempty"`
	SeriesUID      string  `json:"seriesUid,omitempty"      yaml:"seriesUid,omitempty"`
}

// ActivityList is the envelope returned by the activities endpoint.
type ActivityList struct {
	LastActivityID int        `json:"lastActivityId" yaml:"lastActivityId"`
	Activities     []Activity `json:"activities"     yaml:"activities"`
}

// QueryRow is a loosely typed record returned by query endpoints. Query
// result shapes vary per query, so rows are left as raw maps.
type QueryRow = map[string]interface{}

// Cursor holds the continuation metadata returned by cursor-paginated
// endpoints. Name is the opaque token passed back to fetch the next page.
type Cursor struct {
	Name    string  `json:"name"              yaml:"name"`
	Offset  int     `json:"offset,omitempty"  yaml:"offset,omitempty"`
	Count   int     `json:"count,omitempty"   yaml:"count,omitempty"`
	Expires float64 `json:"expires,omitempty" yaml:"expires,omitempty"`
}

// QueryResult is the envelope returned by cursor-paginated endpoints.
type QueryResult[T any] struct {
	Results []T     `json:"results"          yaml:"results"`
	Cursor  *Cursor `json:"cursor,omitempty" yaml:"cursor,omitempty"`
}

// DeviceSearchResult is a paginated page of device search matches.
type DeviceSearchResult = QueryResult[Device]
