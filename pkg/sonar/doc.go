// Package sonar provides types, interfaces, and helpers for working with
// the code-quality platform's web API.
//
// # Overview
//
// The sonar package defines the domain types (e.g., Project, Component,
// Measure, User) and the interfaces for resource-oriented clients (e.g.,
// ProjectsClient, MeasuresClient). A concrete implementation of these
// clients is provided by the sonarclient package, which wires
// configuration, transport, and authentication. Most consumers should
// import sonarclient to construct a client and then interact with the
// resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/sonar/pkg/sonarclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := sonarclient.NewWithToken("https://sonar.example.com", "token")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of projects
//	  page, err := cli.Projects().Search().PageSize(50).Execute(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = page
//	}
//
// # Queries and pagination
//
// List endpoints expose fluent builders that accumulate parameters and
// defer the network call until Execute (one page) or All (every item).
// The package also provides PageIterator, FetchAllPages, and StreamPages
// for driving pagination directly against any page fetcher.
//
// # Errors
//
// Failure responses from both API generations are normalized into one
// typed taxonomy (NetworkError, AuthenticationError, AuthorizationError,
// NotFoundError, ValidationError, RateLimitError, ServerError, and the
// HTTPError fallback), so callers write a single set of checks using
// errors.As or the Is* helpers regardless of which generation produced
// the failure.
package sonar
