package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// ComponentsClient implements sonar.ComponentsClient.
type ComponentsClient struct {
	httpClient *http.Client
}

// NewComponentsClient creates a new components client.
func NewComponentsClient(httpClient *http.Client) *ComponentsClient {
	return &ComponentsClient{httpClient: httpClient}
}

// Show implements sonar.ComponentsClient.Show.
func (c *ComponentsClient) Show(ctx context.Context, key string) (*sonar.ComponentShowResponse, error) {
	query := url.Values{}
	query.Set("component", key)

	resp, err := c.httpClient.Get(ctx, "/api/components/show", query)
	if err != nil {
		return nil, fmt.Errorf("showing component: %w", err)
	}

	var result sonar.ComponentShowResponse

	err = resp.JSON(&result)
	if err != nil {
		return nil, fmt.Errorf("parsing component response: %w", err)
	}

	return &result, nil
}

// Tree implements sonar.ComponentsClient.Tree.
func (c *ComponentsClient) Tree() *sonar.ComponentTreeBuilder {
	return sonar.NewComponentTreeBuilder(func(ctx context.Context, params url.Values) (*sonar.Page[sonar.Component], error) {
		resp, err := c.httpClient.Get(ctx, "/api/components/tree", params)
		if err != nil {
			return nil, fmt.Errorf("listing component tree: %w", err)
		}

		var result struct {
			Paging     sonar.Paging      `json:"paging"`
			Components []sonar.Component `json:"components"`
		}

		err = resp.JSON(&result)
		if err != nil {
			return nil, fmt.Errorf("parsing component tree response: %w", err)
		}

		return &sonar.Page[sonar.Component]{Items: result.Components, Paging: result.Paging}, nil
	})
}
