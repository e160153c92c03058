package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/sonar/internal/client"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *client.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	apiClient, err := client.New(&sonar.Config{
		Endpoint: server.URL,
		Token:    "test-token",
	})
	require.NoError(t, err)

	return apiClient
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestProjectsClient_Search(t *testing.T) {
	t.Parallel()
	t.Run("single page", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/projects/search", request.URL.Path)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "payment", request.URL.Query().Get("q"))

			_, _ = writer.Write([]byte(`{
				"paging": {"pageIndex": 1, "pageSize": 100, "total": 2},
				"components": [
					{"key": "payments-api", "name": "Payments API", "qualifier": "TRK"},
					{"key": "payments-ui", "name": "Payments UI", "qualifier": "TRK"}
				]
			}`))
		}))

		page, err := apiClient.Projects().Search().
			WithQuery("payment").
			Execute(context.Background())
		require.NoError(t, err)

		require.Len(t, page.Items, 2)
		assert.Equal(t, "payments-api", page.Items[0].Key)
		assert.Equal(t, "Payments UI", page.Items[1].Name)
		assert.Equal(t, 2, page.Paging.Total)
	})

	t.Run("All walks every page", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			page := request.URL.Query().Get("p")

			response := map[string]interface{}{
				"paging": sonar.Paging{PageIndex: 1, PageSize: 1, Total: 2},
				"components": []sonar.Project{
					{Key: "proj-1"},
				},
			}

			if page == "2" {
				response = map[string]interface{}{
					"paging": sonar.Paging{PageIndex: 2, PageSize: 1, Total: 2},
					"components": []sonar.Project{
						{Key: "proj-2"},
					},
				}
			}

			_ = json.NewEncoder(writer).Encode(response)
		}))

		projects, err := apiClient.Projects().Search().
			PageSize(1).
			All(context.Background())
		require.NoError(t, err)

		require.Len(t, projects, 2)
		assert.Equal(t, "proj-1", projects[0].Key)
		assert.Equal(t, "proj-2", projects[1].Key)
	})

	t.Run("failure is classified", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
			_, _ = writer.Write([]byte(`{"errors":[{"msg":"Insufficient privileges"}]}`))
		}))

		_, err := apiClient.Projects().Search().Execute(context.Background())
		require.Error(t, err)
		assert.True(t, sonar.IsAuthorization(err))
	})
}

func TestProjectsClient_Create(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/projects/create", request.URL.Path)
		assert.Equal(t, "my-project", request.URL.Query().Get("project"))
		assert.Equal(t, "My Project", request.URL.Query().Get("name"))
		assert.Equal(t, "private", request.URL.Query().Get("visibility"))

		_, _ = writer.Write([]byte(`{"project": {"key": "my-project", "name": "My Project", "qualifier": "TRK"}}`))
	}))

	project, err := apiClient.Projects().Create(context.Background(), &sonar.ProjectCreateRequest{
		Project:    "my-project",
		Name:       "My Project",
		Visibility: "private",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-project", project.Key)
	assert.Equal(t, "TRK", project.Qualifier)
}

func TestProjectsClient_Delete(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/projects/delete", request.URL.Path)
		assert.Equal(t, "my-project", request.URL.Query().Get("project"))
		writer.WriteHeader(http.StatusNoContent)
	}))

	err := apiClient.Projects().Delete(context.Background(), "my-project")
	require.NoError(t, err)
}

func TestProjectsClient_UpdateKey(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/projects/update_key", request.URL.Path)
		assert.Equal(t, "old-key", request.URL.Query().Get("from"))
		assert.Equal(t, "new-key", request.URL.Query().Get("to"))
		writer.WriteHeader(http.StatusNoContent)
	}))

	err := apiClient.Projects().UpdateKey(context.Background(), "old-key", "new-key")
	require.NoError(t, err)
}
