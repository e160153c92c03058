// Package auth implements the credential strategies applied to outgoing
// requests.
package auth

import (
	"net/http"

	"github.com/fivetwenty-io/sonar/pkg/sonar"
)

// NoAuth is the identity strategy: it adds no credentials.
type NoAuth struct{}

// Apply implements sonar.AuthProvider.
func (NoAuth) Apply(http.Header) {}

// BearerToken adds an "Authorization: Bearer <token>" header.
type BearerToken struct {
	token string
}

// NewBearerToken creates a bearer-token provider. An empty token yields
// the no-auth strategy instead, so a missing token never produces a
// malformed header.
func NewBearerToken(token string) sonar.AuthProvider {
	if token == "" {
		return NoAuth{}
	}

	return &BearerToken{token: token}
}

// Apply implements sonar.AuthProvider.
func (b *BearerToken) Apply(headers http.Header) {
	headers.Set("Authorization", "Bearer "+b.token)
}

// Resolve canonicalizes the configuration's credential union. A custom
// provider wins over a raw token; a raw token is wrapped in BearerToken;
// everything else resolves to NoAuth. The rest of the system only ever
// sees the returned provider.
func Resolve(provider sonar.AuthProvider, token string) sonar.AuthProvider {
	if provider != nil {
		return provider
	}

	return NewBearerToken(token)
}
