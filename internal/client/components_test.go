package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentsClient_Show(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/components/show", request.URL.Path)
		assert.Equal(t, "my-project:src/main.go", request.URL.Query().Get("component"))

		_, _ = writer.Write([]byte(`{
			"component": {"key": "my-project:src/main.go", "name": "main.go", "qualifier": "FIL", "language": "go"},
			"ancestors": [{"key": "my-project", "name": "My Project", "qualifier": "TRK"}]
		}`))
	}))

	result, err := apiClient.Components().Show(context.Background(), "my-project:src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "main.go", result.Component.Name)
	assert.Equal(t, "go", result.Component.Language)
	require.Len(t, result.Ancestors, 1)
	assert.Equal(t, "my-project", result.Ancestors[0].Key)
}

func TestComponentsClient_Tree(t *testing.T) {
	t.Parallel()
	t.Run("requires a component", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			t.Error("no request expected")
		}))

		_, err := apiClient.Components().Tree().Execute(context.Background())
		require.Error(t, err)
		assert.True(t, sonar.IsValidation(err))
	})

	t.Run("dispatches with filters", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/components/tree", request.URL.Path)
			assert.Equal(t, "my-project", request.URL.Query().Get("component"))
			assert.Equal(t, "FIL", request.URL.Query().Get("qualifiers"))

			_, _ = writer.Write([]byte(`{
				"paging": {"pageIndex": 1, "pageSize": 100, "total": 1},
				"components": [{"key": "my-project:src", "name": "src", "qualifier": "DIR"}]
			}`))
		}))

		page, err := apiClient.Components().Tree().
			WithComponent("my-project").
			WithQualifiers("FIL").
			Execute(context.Background())
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "DIR", page.Items[0].Qualifier)
	})
}
