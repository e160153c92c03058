package sonar

import (
	"context"
	"net/http"
	"time"

	goversion "github.com/hashicorp/go-version"
)

// ProjectsClient provides access to project operations.
type ProjectsClient interface {
	Search() *ProjectSearchBuilder
	Create(ctx context.Context, request *ProjectCreateRequest) (*Project, error)
	Delete(ctx context.Context, key string) error
	UpdateKey(ctx context.Context, from, to string) error
}

// ComponentsClient provides access to component operations.
type ComponentsClient interface {
	Show(ctx context.Context, key string) (*ComponentShowResponse, error)
	Tree() *ComponentTreeBuilder
}

// MeasuresClient provides access to measure operations.
type MeasuresClient interface {
	Component(ctx context.Context, key string, metricKeys []string) (*ComponentMeasures, error)
	ComponentTree() *MeasuresTreeBuilder
	SearchHistory(ctx context.Context, component string, metricKeys []string, params *QueryParams) (*Page[MeasureHistory], error)
}

// SystemClient provides access to system operations.
type SystemClient interface {
	Health(ctx context.Context) (*SystemHealth, error)
	Status(ctx context.Context) (*SystemStatus, error)
	Ping(ctx context.Context) (string, error)
	Version(ctx context.Context) (*goversion.Version, error)
	SupportsV2(ctx context.Context) (bool, error)
}

// BadgesClient provides access to project badge operations. Badges are
// returned as raw SVG text.
type BadgesClient interface {
	Measure(ctx context.Context, project, metric string) (string, error)
	QualityGate(ctx context.Context, project string) (string, error)
}

// UsersClient provides access to user management operations on the v2 API.
type UsersClient interface {
	Search(ctx context.Context, query string, pageSize int) UserIterator
	SearchAll(ctx context.Context, query string, maxItems int) ([]User, error)
	Create(ctx context.Context, request *UserCreateRequest) (*User, error)
	Deactivate(ctx context.Context, id string) error
}

// UserIterator iterates users page by page.
type UserIterator interface {
	HasNext() bool
	Next() (User, error)
	All() ([]User, error)
}

// ScaClient provides access to software composition analysis reports on
// the v2 API.
type ScaClient interface {
	DownloadSBOM(ctx context.Context, projectKey, format string, options *DownloadOptions) ([]byte, error)
}

// Client provides access to all resource clients.
type Client interface {
	Projects() ProjectsClient
	Components() ComponentsClient
	Measures() MeasuresClient
	System() SystemClient
	Badges() BadgesClient
	Users() UsersClient
	Sca() ScaClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// AuthProvider mutates an outgoing header set to add credentials. It must
// never fail; a provider with nothing to add applies the identity
// transform.
type AuthProvider interface {
	Apply(headers http.Header)
}

// Config represents client configuration for building a sonar.Client.
//
// # Authentication
//
// Provide either Token (the common path: it is wrapped in a bearer-token
// provider, or in the no-auth provider when empty) or a custom
// AuthProvider. When both are set, AuthProvider wins. The union is
// resolved once at construction; the rest of the system only ever sees
// the canonical provider.
//
// # Timeouts and retries
//
// Per-request timeouts should be controlled via the context passed to
// client methods. No retries are performed unless RetryMax is set.
type Config struct {
	// Endpoint: base URL for the API (e.g., "https://sonar.example.com").
	// sonarclient.New normalizes this value by trimming a trailing slash
	// and adding "https://" if no scheme is present.
	Endpoint string

	// Token: bearer token sent on every request. An empty token sends no
	// Authorization header.
	Token string

	// AuthProvider: custom credential strategy; overrides Token when set.
	AuthProvider AuthProvider

	// Organization: when set, appended as an "organization" query
	// parameter to every request that does not already carry one.
	Organization string

	// RetryMax: maximum number of retries for transient failures (5xx,
	// 429, connection errors). 0 means a single attempt per call.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}
