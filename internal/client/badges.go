package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/sonar/internal/http"
)

// BadgesClient implements sonar.BadgesClient. Badge endpoints answer raw
// SVG, so they are requested with the text response shape.
type BadgesClient struct {
	httpClient *http.Client
}

// NewBadgesClient creates a new badges client.
func NewBadgesClient(httpClient *http.Client) *BadgesClient {
	return &BadgesClient{httpClient: httpClient}
}

// Measure implements sonar.BadgesClient.Measure.
func (c *BadgesClient) Measure(ctx context.Context, project, metric string) (string, error) {
	query := url.Values{}
	query.Set("project", project)
	query.Set("metric", metric)

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "GET",
		Path:   "/api/project_badges/measure",
		Query:  query,
		Shape:  http.ShapeText,
	})
	if err != nil {
		return "", fmt.Errorf("getting measure badge: %w", err)
	}

	return resp.Text(), nil
}

// QualityGate implements sonar.BadgesClient.QualityGate.
func (c *BadgesClient) QualityGate(ctx context.Context, project string) (string, error) {
	query := url.Values{}
	query.Set("project", project)

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "GET",
		Path:   "/api/project_badges/quality_gate",
		Query:  query,
		Shape:  http.ShapeText,
	})
	if err != nil {
		return "", fmt.Errorf("getting quality gate badge: %w", err)
	}

	return resp.Text(), nil
}
