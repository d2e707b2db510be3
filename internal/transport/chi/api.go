package chi

import "time"

// ErrorCode is a machine-readable error classifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeNotFound         ErrorCode = "location_not_found"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeForbidden        ErrorCode = "forbidden"
	ErrorCodeNotImplemented   ErrorCode = "not_implemented"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// LocationResponse is a location as returned by the API.
type LocationResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Address        string    `json:"address,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Website        string    `json:"website,omitempty"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
}

// LocationListResponse is a paginated list of locations.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Total int                `json:"total"`
	Skip  int                `json:"skip"`
	Limit int                `json:"limit"`
}

// LocationItemsResponse is an unpaginated list of locations.
type LocationItemsResponse struct {
	Items []LocationResponse `json:"items"`
}

// CreateLocationRequest is the body of POST /v1/locations.
type CreateLocationRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	Category    string   `json:"category"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateLocationRequest is the body of PATCH /v1/admin/locations/{id}.
type UpdateLocationRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Address     *string  `json:"address"`
	Phone       *string  `json:"phone"`
	Website     *string  `json:"website"`
	Category    *string  `json:"category"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// StatusUpdateRequest is the body of PATCH /v1/admin/locations/{id}/status.
type StatusUpdateRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}

// ModerationEntryResponse is one moderation log entry.
type ModerationEntryResponse struct {
	ID          string    `json:"id"`
	LocationID  int64     `json:"location_id"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason,omitempty"`
	ModeratorID string    `json:"moderator_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModerationHistoryResponse lists a location's moderation log, oldest first.
type ModerationHistoryResponse struct {
	Items []ModerationEntryResponse `json:"items"`
	Total int                       `json:"total"`
}

// StatsResponse counts locations per status.
type StatsResponse struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	LatencyMs float64           `json:"latency_ms"`
	Version   string            `json:"version"`
}
