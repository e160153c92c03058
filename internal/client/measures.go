package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// MeasuresClient implements sonar.MeasuresClient.
type MeasuresClient struct {
	httpClient *http.Client
}

// NewMeasuresClient creates a new measures client.
func NewMeasuresClient(httpClient *http.Client) *MeasuresClient {
	return &MeasuresClient{httpClient: httpClient}
}

// Component implements sonar.MeasuresClient.Component.
func (c *MeasuresClient) Component(ctx context.Context, key string, metricKeys []string) (*sonar.ComponentMeasures, error) {
	query := url.Values{}
	query.Set("component", key)
	query.Set("metricKeys", strings.Join(metricKeys, ","))

	resp, err := c.httpClient.Get(ctx, "/api/measures/component", query)
	if err != nil {
		return nil, fmt.Errorf("getting component measures: %w", err)
	}

	var result sonar.ComponentMeasures

	err = resp.JSON(&result)
	if err != nil {
		return nil, fmt.Errorf("parsing component measures response: %w", err)
	}

	return &result, nil
}

// ComponentTree implements sonar.MeasuresClient.ComponentTree.
func (c *MeasuresClient) ComponentTree() *sonar.MeasuresTreeBuilder {
	return sonar.NewMeasuresTreeBuilder(func(ctx context.Context, params url.Values) (*sonar.Page[sonar.Component], error) {
		resp, err := c.httpClient.Get(ctx, "/api/measures/component_tree", params)
		if err != nil {
			return nil, fmt.Errorf("listing measures component tree: %w", err)
		}

		var result struct {
			Paging     sonar.Paging      `json:"paging"`
			Components []sonar.Component `json:"components"`
		}

		err = resp.JSON(&result)
		if err != nil {
			return nil, fmt.Errorf("parsing measures component tree response: %w", err)
		}

		return &sonar.Page[sonar.Component]{Items: result.Components, Paging: result.Paging}, nil
	})
}

// SearchHistory implements sonar.MeasuresClient.SearchHistory.
func (c *MeasuresClient) SearchHistory(ctx context.Context, component string, metricKeys []string, params *sonar.QueryParams) (*sonar.Page[sonar.MeasureHistory], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	} else {
		query = url.Values{}
	}

	query.Set("component", component)
	query.Set("metrics", strings.Join(metricKeys, ","))

	resp, err := c.httpClient.Get(ctx, "/api/measures/search_history", query)
	if err != nil {
		return nil, fmt.Errorf("searching measure history: %w", err)
	}

	var result struct {
		Paging   sonar.Paging           `json:"paging"`
		Measures []sonar.MeasureHistory `json:"measures"`
	}

	err = resp.JSON(&result)
	if err != nil {
		return nil, fmt.Errorf("parsing measure history response: %w", err)
	}

	return &sonar.Page[sonar.MeasureHistory]{Items: result.Measures, Paging: result.Paging}, nil
}
