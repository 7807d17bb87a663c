package models

// UserResponse wraps a single user as {"data": {"user": {...}}}.
type UserResponse struct {
	Data UserData `json:"data"`
}

// UserData is the "data" envelope of [UserResponse].
type UserData struct {
	User User `json:"user"`
}

// UsersResponse wraps a user list as {"data": {"users": [...]}}.
type UsersResponse struct {
	Data UsersData `json:"data"`
}

// UsersData is the "data" envelope of [UsersResponse].
type UsersData struct {
	Users []User `json:"users"`
}

// EmptyResponse is returned by operations with nothing to report,
// e.g. a successful delete: {"data": {}}.
type EmptyResponse struct {
	Data struct{} `json:"data"`
}

// ErrorResponse is the structured body of every failed request.
// Fields is set only for validation failures and maps a field name to a
// human-readable message.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// BuildInfoResponse is the body of GET /api/version/build.
type BuildInfoResponse struct {
	Version      string `json:"version"`
	BuildVersion string `json:"build_version"`
	BuildDate    string `json:"build_date"`
	BuildCommit  string `json:"build_commit"`
}
