package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

const usersPath = "/api/v2/users-management/users"

// UsersClient implements sonar.UsersClient against the v2 API.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{httpClient: httpClient}
}

// Search implements sonar.UsersClient.Search.
func (c *UsersClient) Search(ctx context.Context, query string, pageSize int) sonar.UserIterator {
	v2Query := http.NewV2Query()
	if query != "" {
		v2Query.Set("q", query)
	}

	return http.IterateV2[sonar.User](ctx, c.httpClient, usersPath, v2Query, pageSize)
}

// SearchAll implements sonar.UsersClient.SearchAll.
func (c *UsersClient) SearchAll(ctx context.Context, query string, maxItems int) ([]sonar.User, error) {
	v2Query := http.NewV2Query()
	if query != "" {
		v2Query.Set("q", query)
	}

	users, err := http.FetchAllV2[sonar.User](ctx, c.httpClient, usersPath, v2Query, 0, maxItems)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	return users, nil
}

// Create implements sonar.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, request *sonar.UserCreateRequest) (*sonar.User, error) {
	resp, err := c.httpClient.PostV2(ctx, usersPath, request)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	var user sonar.User

	err = resp.JSON(&user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Deactivate implements sonar.UsersClient.Deactivate.
func (c *UsersClient) Deactivate(ctx context.Context, id string) error {
	_, err := c.httpClient.DeleteV2(ctx, usersPath+"/"+id)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}

	return nil
}
