// Package client implements the sonar.Client facade and the per-resource
// clients built on the shared request engine.
package client

import (
	"github.com/fivetwenty-io/sonar/internal/auth"
	"github.com/fivetwenty-io/sonar/internal/constants"
	"github.com/fivetwenty-io/sonar/internal/http"
	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// Client implements the sonar.Client interface.
type Client struct {
	httpClient *http.Client

	projects   sonar.ProjectsClient
	components sonar.ComponentsClient
	measures   sonar.MeasuresClient
	system     sonar.SystemClient
	badges     sonar.BadgesClient
	users      sonar.UsersClient
	sca        sonar.ScaClient
}

// New creates a new client from config. The config's credential union
// (raw token or custom provider) is resolved once here; everything
// downstream sees only the canonical provider.
func New(config *sonar.Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, sonar.ErrEndpointRequired
	}

	provider := auth.Resolve(config.AuthProvider, config.Token)

	httpOpts := buildHTTPOptions(config)
	httpClient := http.NewClient(config.Endpoint, provider, httpOpts...)

	client := &Client{httpClient: httpClient}
	client.initializeResourceClients()

	return client, nil
}

// buildHTTPOptions builds HTTP client options from config.
func buildHTTPOptions(config *sonar.Config) []http.Option {
	var httpOpts []http.Option

	if config.Organization != "" {
		httpOpts = append(httpOpts, http.WithOrganization(config.Organization))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.projects = NewProjectsClient(c.httpClient)
	c.components = NewComponentsClient(c.httpClient)
	c.measures = NewMeasuresClient(c.httpClient)
	c.system = NewSystemClient(c.httpClient)
	c.badges = NewBadgesClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.sca = NewScaClient(c.httpClient)
}

// Projects implements sonar.Client.Projects.
func (c *Client) Projects() sonar.ProjectsClient {
	return c.projects
}

// Components implements sonar.Client.Components.
func (c *Client) Components() sonar.ComponentsClient {
	return c.components
}

// Measures implements sonar.Client.Measures.
func (c *Client) Measures() sonar.MeasuresClient {
	return c.measures
}

// System implements sonar.Client.System.
func (c *Client) System() sonar.SystemClient {
	return c.system
}

// Badges implements sonar.Client.Badges.
func (c *Client) Badges() sonar.BadgesClient {
	return c.badges
}

// Users implements sonar.Client.Users.
func (c *Client) Users() sonar.UsersClient {
	return c.users
}

// Sca implements sonar.Client.Sca.
func (c *Client) Sca() sonar.ScaClient {
	return c.sca
}
