package sonar

// Paging represents the pagination metadata the service attaches to list
// responses, shared by both API generations.
type Paging struct {
	PageIndex int `json:"pageIndex" yaml:"pageIndex"`
	PageSize  int `json:"pageSize"  yaml:"pageSize"`
	Total     int `json:"total"     yaml:"total"`
}

// Page is a single fetched page of items after the resource-specific item
// collection has been extracted from the response body.
type Page[T any] struct {
	Items  []T
	Paging Paging
}

// V2Page is the v2 API's list response shape.
type V2Page[T any] struct {
	Data []T    `json:"data" yaml:"data"`
	Page Paging `json:"page" yaml:"page"`
}

// Project represents a project resource.
type Project struct {
	Key              string `json:"key"                        yaml:"key"`
	Name             string `json:"name"                       yaml:"name"`
	Qualifier        string `json:"qualifier,omitempty"        yaml:"qualifier,omitempty"`
	Visibility       string `json:"visibility,omitempty"       yaml:"visibility,omitempty"`
	LastAnalysisDate string `json:"lastAnalysisDate,omitempty" yaml:"lastAnalysisDate,omitempty"`
	Revision         string `json:"revision,omitempty"         yaml:"revision,omitempty"`
}

// ProjectCreateRequest holds the parameters for creating a project.
type ProjectCreateRequest struct {
	Project    string `json:"project"`
	Name       string `json:"name"`
	Visibility string `json:"visibility,omitempty"`
	MainBranch string `json:"mainBranch,omitempty"`
}

// Component represents a component resource (project, directory, or file).
type Component struct {
	Key       string    `json:"key"                yaml:"key"`
	Name      string    `json:"name"               yaml:"name"`
	Qualifier string    `json:"qualifier"          yaml:"qualifier"`
	Path      string    `json:"path,omitempty"     yaml:"path,omitempty"`
	Language  string    `json:"language,omitempty" yaml:"language,omitempty"`
	Measures  []Measure `json:"measures,omitempty" yaml:"measures,omitempty"`
}

// ComponentShowResponse is the response of the component show operation.
type ComponentShowResponse struct {
	Component Component   `json:"component" yaml:"component"`
	Ancestors []Component `json:"ancestors" yaml:"ancestors"`
}

// Measure represents a single measured value for a metric.
type Measure struct {
	Metric    string `json:"metric"              yaml:"metric"`
	Value     string `json:"value,omitempty"     yaml:"value,omitempty"`
	BestValue bool   `json:"bestValue,omitempty" yaml:"bestValue,omitempty"`
}

// ComponentMeasures is the response of the measures component operation.
type ComponentMeasures struct {
	Component Component `json:"component" yaml:"component"`
}

// MeasureHistory represents the measure history for one metric.
type MeasureHistory struct {
	Metric  string              `json:"metric"  yaml:"metric"`
	History []MeasureHistoryRow `json:"history" yaml:"history"`
}

// MeasureHistoryRow is a single dated value in a measure history.
type MeasureHistoryRow struct {
	Date  string `json:"date"            yaml:"date"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// SystemHealth represents the system health response.
type SystemHealth struct {
	Health string        `json:"health" yaml:"health"`
	Causes []HealthCause `json:"causes" yaml:"causes"`
}

// HealthCause is a reason the system is degraded.
type HealthCause struct {
	Message string `json:"message" yaml:"message"`
}

// SystemStatus represents the system status response.
type SystemStatus struct {
	ID      string `json:"id"      yaml:"id"`
	Version string `json:"version" yaml:"version"`
	Status  string `json:"status"  yaml:"status"`
}

// User represents a user resource from the v2 API.
type User struct {
	ID     string `json:"id"              yaml:"id"`
	Login  string `json:"login"           yaml:"login"`
	Name   string `json:"name"            yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Active bool   `json:"active"          yaml:"active"`
}

// UserCreateRequest holds the parameters for creating a user.
type UserCreateRequest struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Progress reports the state of a streamed binary download. Percentage is
// 0 while the total size is unknown.
type Progress struct {
	Loaded     int64
	Total      int64
	Percentage int
}

// DownloadOptions configures a binary download.
type DownloadOptions struct {
	// OnProgress, when set, is invoked after every received chunk. When
	// nil the body is consumed in a single read without manual streaming.
	OnProgress func(Progress)
}
