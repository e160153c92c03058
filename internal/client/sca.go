package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// ScaClient implements sonar.ScaClient against the v2 API.
type ScaClient struct {
	httpClient *http.Client
}

// NewScaClient creates a new software composition analysis client.
func NewScaClient(httpClient *http.Client) *ScaClient {
	return &ScaClient{httpClient: httpClient}
}

// DownloadSBOM implements sonar.ScaClient.DownloadSBOM. The report can be
// large, so a progress callback in options streams it chunk by chunk.
func (c *ScaClient) DownloadSBOM(ctx context.Context, projectKey, format string, options *sonar.DownloadOptions) ([]byte, error) {
	query := url.Values{}
	query.Set("project", projectKey)

	if format != "" {
		query.Set("format", format)
	}

	report, err := c.httpClient.DownloadWithProgress(ctx, "/api/v2/sca/sbom-reports", query, options)
	if err != nil {
		return nil, fmt.Errorf("downloading SBOM report: %w", err)
	}

	return report, nil
}
