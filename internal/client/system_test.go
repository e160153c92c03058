package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClient_Health(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/system/health", request.URL.Path)
		_, _ = writer.Write([]byte(`{"health": "YELLOW", "causes": [{"message": "Low disk space"}]}`))
	}))

	health, err := apiClient.System().Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "YELLOW", health.Health)
	require.Len(t, health.Causes, 1)
	assert.Equal(t, "Low disk space", health.Causes[0].Message)
}

func TestSystemClient_Status(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/system/status", request.URL.Path)
		_, _ = writer.Write([]byte(`{"id": "20250101", "version": "10.6.0.92116", "status": "UP"}`))
	}))

	status, err := apiClient.System().Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UP", status.Status)
	assert.Equal(t, "10.6.0.92116", status.Version)
}

func TestSystemClient_Ping(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/system/ping", request.URL.Path)

		// Plain text, not JSON.
		assert.NotEqual(t, "application/json", request.Header.Get("Accept"))
		_, _ = writer.Write([]byte("pong"))
	}))

	pong, err := apiClient.System().Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", pong)
}

func TestSystemClient_Version(t *testing.T) {
	t.Parallel()
	t.Run("parses the reported version", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"version": "10.6.0.92116", "status": "UP"}`))
		}))

		version, err := apiClient.System().Version(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 10, version.Segments()[0])
		assert.Equal(t, 6, version.Segments()[1])
	})

	t.Run("unparseable version fails", func(t *testing.T) {
		t.Parallel()

		apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"version": "not-a-version", "status": "UP"}`))
		}))

		_, err := apiClient.System().Version(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing server version")
	})
}

func TestSystemClient_SupportsV2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		expected bool
	}{
		{name: "newer server", version: "10.6.0.92116", expected: true},
		{name: "exact boundary", version: "10.4", expected: true},
		{name: "older server", version: "9.9.1", expected: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				_, _ = writer.Write([]byte(`{"version": "` + tt.version + `", "status": "UP"}`))
			}))

			supported, err := apiClient.System().SupportsV2(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, supported)
		})
	}
}

func TestSystemClient_StatusDown(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusServiceUnavailable)
		_, _ = writer.Write([]byte(`{"errors":[{"msg":"Server is starting"}]}`))
	}))

	_, err := apiClient.System().Status(context.Background())
	require.Error(t, err)

	var serverErr *sonar.ServerError

	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.StatusCode)
}
