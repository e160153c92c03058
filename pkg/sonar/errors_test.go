package sonar_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestClassifyResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		body       string
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 becomes authentication error",
			statusCode: http.StatusUnauthorized,
			body:       `{"errors":[{"msg":"Authentication required"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, sonar.IsAuthentication(err))
				assert.Contains(t, err.Error(), "Authentication required")
			},
		},
		{
			name:       "403 becomes authorization error",
			statusCode: http.StatusForbidden,
			body:       `{"errors":[{"msg":"Insufficient privileges"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, sonar.IsAuthorization(err))
			},
		},
		{
			name:       "404 becomes not found error",
			statusCode: http.StatusNotFound,
			body:       `{"errors":[{"msg":"Project not found"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, sonar.IsNotFound(err))
				assert.Contains(t, err.Error(), "Project not found")
			},
		},
		{
			name:       "400 becomes validation error",
			statusCode: http.StatusBadRequest,
			body:       `{"errors":[{"msg":"The 'project' parameter is missing"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, sonar.IsValidation(err))
			},
		},
		{
			name:       "422 becomes validation error",
			statusCode: http.StatusUnprocessableEntity,
			body:       `{"errors":[{"msg":"Malformed key"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, sonar.IsValidation(err))
			},
		},
		{
			name:       "429 carries Retry-After",
			statusCode: http.StatusTooManyRequests,
			header:     http.Header{"Retry-After": []string{"30"}},
			body:       `{"errors":[{"msg":"Rate limit exceeded"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, sonar.IsRateLimit(err))

				var rateLimit *sonar.RateLimitError

				require.ErrorAs(t, err, &rateLimit)
				assert.Equal(t, 30*time.Second, rateLimit.RetryAfter)
			},
		},
		{
			name:       "429 without Retry-After",
			statusCode: http.StatusTooManyRequests,
			body:       `{"errors":[{"msg":"Rate limit exceeded"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				var rateLimit *sonar.RateLimitError

				require.ErrorAs(t, err, &rateLimit)
				assert.Zero(t, rateLimit.RetryAfter)
			},
		},
		{
			name:       "500 becomes server error",
			statusCode: http.StatusInternalServerError,
			body:       `{"errors":[{"msg":"Unexpected error"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				var server *sonar.ServerError

				require.ErrorAs(t, err, &server)
				assert.Equal(t, 500, server.StatusCode)
			},
		},
		{
			name:       "503 becomes server error",
			statusCode: http.StatusServiceUnavailable,
			body:       "",
			check: func(t *testing.T, err error) {
				t.Helper()

				var server *sonar.ServerError

				require.ErrorAs(t, err, &server)
			},
		},
		{
			name:       "unmapped status falls back to HTTPError",
			statusCode: http.StatusConflict,
			body:       `{"errors":[{"msg":"Already exists"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.False(t, sonar.IsValidation(err))
				assert.False(t, sonar.IsNotFound(err))

				var httpErr *sonar.HTTPError

				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, 409, httpErr.StatusCode)
				assert.Equal(t, []string{"Already exists"}, httpErr.Messages)
			},
		},
		{
			name:       "non-JSON body kept as raw message",
			statusCode: http.StatusNotFound,
			body:       "plain text failure",
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.Contains(t, err.Error(), "plain text failure")
			},
		},
		{
			name:       "multiple messages joined",
			statusCode: http.StatusBadRequest,
			body:       `{"errors":[{"msg":"first"},{"msg":"second"}]}`,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.Contains(t, err.Error(), "first")
				assert.Contains(t, err.Error(), "second")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := sonar.ClassifyResponse(tt.statusCode, tt.header, []byte(tt.body))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestClassifyV2Response(t *testing.T) {
	t.Parallel()
	t.Run("envelope message and validations", func(t *testing.T) {
		t.Parallel()

		body := `{"error":{"message":"Request validation failed","validations":[` +
			`{"field":"login","message":"login is required"},` +
			`{"field":"email","message":"email is malformed"}]}}`

		err := sonar.ClassifyV2Response(http.StatusBadRequest, nil, []byte(body))
		require.Error(t, err)

		var validation *sonar.ValidationError

		require.ErrorAs(t, err, &validation)
		assert.Equal(t, http.StatusBadRequest, validation.StatusCode)
		assert.Contains(t, validation.Messages, "Request validation failed")
		assert.Equal(t, []string{"login is required"}, validation.Fields["login"])
		assert.Equal(t, []string{"email is malformed"}, validation.Fields["email"])
	})

	t.Run("same status mapping as v1", func(t *testing.T) {
		t.Parallel()

		body := `{"error":{"message":"Not found"}}`

		err := sonar.ClassifyV2Response(http.StatusNotFound, nil, []byte(body))
		assert.True(t, sonar.IsNotFound(err))
		assert.Contains(t, err.Error(), "Not found")
	})

	t.Run("v1-shaped body tolerated", func(t *testing.T) {
		t.Parallel()

		body := `{"errors":[{"msg":"legacy shape"}]}`

		err := sonar.ClassifyV2Response(http.StatusForbidden, nil, []byte(body))
		assert.True(t, sonar.IsAuthorization(err))
		assert.Contains(t, err.Error(), "legacy shape")
	})

	t.Run("unparseable body still classified", func(t *testing.T) {
		t.Parallel()

		err := sonar.ClassifyV2Response(http.StatusInternalServerError, nil, []byte("<html>oops</html>"))

		var server *sonar.ServerError

		require.ErrorAs(t, err, &server)
		assert.Contains(t, err.Error(), "oops")
	})
}

func TestNewValidationError(t *testing.T) {
	t.Parallel()

	err := sonar.NewValidationError(
		[]string{`missing required parameter "component"`},
		map[string][]string{"component": {`missing required parameter "component"`}},
	)

	assert.Zero(t, err.StatusCode)
	assert.True(t, sonar.IsValidation(err))
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "component")
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &sonar.NetworkError{URL: "https://sonar.example.com/api/system/status", Err: cause}

	assert.True(t, sonar.IsNetwork(err))
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "sonar.example.com")
}

func TestPredicatesRejectWrappedOtherKinds(t *testing.T) {
	t.Parallel()

	notFound := sonar.ClassifyResponse(http.StatusNotFound, nil, nil)
	wrapped := fmt.Errorf("searching projects: %w", notFound)

	assert.True(t, sonar.IsNotFound(wrapped))
	assert.False(t, sonar.IsAuthentication(wrapped))
	assert.False(t, sonar.IsValidation(wrapped))
	assert.False(t, sonar.IsNetwork(wrapped))
}
