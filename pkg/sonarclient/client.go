// Package sonarclient provides the main entry point for creating clients
// for the code-quality platform API.
package sonarclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/sonar/internal/client"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// New creates a new API client from config.
func New(config *sonar.Config) (sonar.Client, error) {
	if config == nil {
		return nil, sonar.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, sonar.ErrEndpointRequired
	}

	// Normalize the endpoint
	endpoint := strings.TrimSuffix(config.Endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	config.Endpoint = endpoint

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewWithEndpoint creates a new client with just an endpoint (no auth).
func NewWithEndpoint(endpoint string) (sonar.Client, error) {
	return New(&sonar.Config{
		Endpoint: endpoint,
	})
}

// NewWithToken creates a new client with an endpoint and bearer token.
func NewWithToken(endpoint, token string) (sonar.Client, error) {
	return New(&sonar.Config{
		Endpoint: endpoint,
		Token:    token,
	})
}

// NewWithOrganization creates a new client bound to an organization, the
// convention used by the hosted multi-tenant deployment.
func NewWithOrganization(endpoint, token, organization string) (sonar.Client, error) {
	return New(&sonar.Config{
		Endpoint:     endpoint,
		Token:        token,
		Organization: organization,
	})
}
