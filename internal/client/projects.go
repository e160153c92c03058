package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// ProjectsClient implements sonar.ProjectsClient.
type ProjectsClient struct {
	httpClient *http.Client
}

// NewProjectsClient creates a new projects client.
func NewProjectsClient(httpClient *http.Client) *ProjectsClient {
	return &ProjectsClient{httpClient: httpClient}
}

// Search implements sonar.ProjectsClient.Search.
func (c *ProjectsClient) Search() *sonar.ProjectSearchBuilder {
	return sonar.NewProjectSearchBuilder(func(ctx context.Context, params url.Values) (*sonar.Page[sonar.Project], error) {
		resp, err := c.httpClient.Get(ctx, "/api/projects/search", params)
		if err != nil {
			return nil, fmt.Errorf("searching projects: %w", err)
		}

		var result struct {
			Paging     sonar.Paging    `json:"paging"`
			Components []sonar.Project `json:"components"`
		}

		err = resp.JSON(&result)
		if err != nil {
			return nil, fmt.Errorf("parsing project search response: %w", err)
		}

		return &sonar.Page[sonar.Project]{Items: result.Components, Paging: result.Paging}, nil
	})
}

// Create implements sonar.ProjectsClient.Create.
func (c *ProjectsClient) Create(ctx context.Context, request *sonar.ProjectCreateRequest) (*sonar.Project, error) {
	query := url.Values{}
	query.Set("project", request.Project)
	query.Set("name", request.Name)

	if request.Visibility != "" {
		query.Set("visibility", request.Visibility)
	}

	if request.MainBranch != "" {
		query.Set("mainBranch", request.MainBranch)
	}

	resp, err := c.httpClient.PostForm(ctx, "/api/projects/create", query)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	var result struct {
		Project sonar.Project `json:"project"`
	}

	err = resp.JSON(&result)
	if err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	return &result.Project, nil
}

// Delete implements sonar.ProjectsClient.Delete.
func (c *ProjectsClient) Delete(ctx context.Context, key string) error {
	query := url.Values{}
	query.Set("project", key)

	_, err := c.httpClient.PostForm(ctx, "/api/projects/delete", query)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	return nil
}

// UpdateKey implements sonar.ProjectsClient.UpdateKey.
func (c *ProjectsClient) UpdateKey(ctx context.Context, from, to string) error {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)

	_, err := c.httpClient.PostForm(ctx, "/api/projects/update_key", query)
	if err != nil {
		return fmt.Errorf("updating project key: %w", err)
	}

	return nil
}
