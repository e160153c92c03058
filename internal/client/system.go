package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
	goversion "github.com/hashicorp/go-version"
)

// minV2Version is the first server version exposing the v2 API
// generation.
var minV2Version = goversion.Must(goversion.NewVersion("10.4"))

// SystemClient implements sonar.SystemClient.
type SystemClient struct {
	httpClient *http.Client
}

// NewSystemClient creates a new system client.
func NewSystemClient(httpClient *http.Client) *SystemClient {
	return &SystemClient{httpClient: httpClient}
}

// Health implements sonar.SystemClient.Health.
func (c *SystemClient) Health(ctx context.Context) (*sonar.SystemHealth, error) {
	resp, err := c.httpClient.Get(ctx, "/api/system/health", nil)
	if err != nil {
		return nil, fmt.Errorf("getting system health: %w", err)
	}

	var health sonar.SystemHealth

	err = resp.JSON(&health)
	if err != nil {
		return nil, fmt.Errorf("parsing system health response: %w", err)
	}

	return &health, nil
}

// Status implements sonar.SystemClient.Status.
func (c *SystemClient) Status(ctx context.Context) (*sonar.SystemStatus, error) {
	resp, err := c.httpClient.Get(ctx, "/api/system/status", nil)
	if err != nil {
		return nil, fmt.Errorf("getting system status: %w", err)
	}

	var status sonar.SystemStatus

	err = resp.JSON(&status)
	if err != nil {
		return nil, fmt.Errorf("parsing system status response: %w", err)
	}

	return &status, nil
}

// Ping implements sonar.SystemClient.Ping. The endpoint answers plain
// text ("pong"), not JSON.
func (c *SystemClient) Ping(ctx context.Context) (string, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "GET",
		Path:   "/api/system/ping",
		Shape:  http.ShapeText,
	})
	if err != nil {
		return "", fmt.Errorf("pinging system: %w", err)
	}

	return resp.Text(), nil
}

// Version implements sonar.SystemClient.Version.
func (c *SystemClient) Version(ctx context.Context) (*goversion.Version, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := goversion.NewVersion(status.Version)
	if err != nil {
		return nil, fmt.Errorf("parsing server version %q: %w", status.Version, err)
	}

	return parsed, nil
}

// SupportsV2 implements sonar.SystemClient.SupportsV2.
func (c *SystemClient) SupportsV2(ctx context.Context) (bool, error) {
	parsed, err := c.Version(ctx)
	if err != nil {
		return false, err
	}

	return parsed.GreaterThanOrEqual(minV2Version), nil
}
