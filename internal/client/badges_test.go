package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badgeSVG = `<svg xmlns="http://www.w3.org/2000/svg"><text>passed</text></svg>`

func TestBadgesClient_Measure(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/project_badges/measure", request.URL.Path)
		assert.Equal(t, "my-project", request.URL.Query().Get("project"))
		assert.Equal(t, "coverage", request.URL.Query().Get("metric"))

		writer.Header().Set("Content-Type", "image/svg+xml")
		_, _ = writer.Write([]byte(badgeSVG))
	}))

	svg, err := apiClient.Badges().Measure(context.Background(), "my-project", "coverage")
	require.NoError(t, err)
	assert.Equal(t, badgeSVG, svg)
}

func TestBadgesClient_QualityGate(t *testing.T) {
	t.Parallel()

	apiClient := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/project_badges/quality_gate", request.URL.Path)
		assert.Equal(t, "my-project", request.URL.Query().Get("project"))

		writer.Header().Set("Content-Type", "image/svg+xml")
		_, _ = writer.Write([]byte(badgeSVG))
	}))

	svg, err := apiClient.Badges().QualityGate(context.Background(), "my-project")
	require.NoError(t, err)
	assert.Contains(t, svg, "passed")
}
