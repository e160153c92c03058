package sonar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NetworkError represents a transport-level failure before any HTTP
// response was received (DNS, connection refused, TLS, etc.).
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is the generic fallback for HTTP failure responses that do not
// map to a more specific error kind. The more specific kinds embed it.
type HTTPError struct {
	StatusCode int
	Messages   []string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}

	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// AuthenticationError represents a 401 response.
type AuthenticationError struct {
	HTTPError
}

// AuthorizationError represents a 403 response.
type AuthorizationError struct {
	HTTPError
}

// NotFoundError represents a 404 response.
type NotFoundError struct {
	HTTPError
}

// ValidationError represents a 400/422-class response carrying field-level
// messages, or a local validation failure raised before any network call
// (StatusCode is 0 in that case).
type ValidationError struct {
	HTTPError

	// Fields maps a field name to the messages reported for it.
	Fields map[string][]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
	}

	return e.HTTPError.Error()
}

// RateLimitError represents a 429 response. RetryAfter is zero when the
// server did not report one.
type RateLimitError struct {
	HTTPError

	RetryAfter time.Duration
}

// ServerError represents a 5xx response.
type ServerError struct {
	HTTPError
}

// ErrorMessage is a single message in the service's v1 error body.
type ErrorMessage struct {
	Msg string `json:"msg"`
}

// ErrorsEnvelope is the service's v1 error body convention.
type ErrorsEnvelope struct {
	Errors []ErrorMessage `json:"errors"`
}

// V2Validation is a single field-level message in a v2 error body.
type V2Validation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// V2Error is the inner object of the service's v2 error body convention.
type V2Error struct {
	Message     string         `json:"message"`
	Code        string         `json:"code,omitempty"`
	Validations []V2Validation `json:"validations,omitempty"`
}

// V2ErrorEnvelope is the service's v2 error body convention.
type V2ErrorEnvelope struct {
	Error *V2Error `json:"error"`
}

// NewValidationError creates a local (pre-network) validation error.
func NewValidationError(messages []string, fields map[string][]string) *ValidationError {
	return &ValidationError{
		HTTPError: HTTPError{Messages: messages},
		Fields:    fields,
	}
}

// ClassifyResponse translates a failure response into the typed error
// taxonomy. The body is expected to follow the v1 error convention
// ({"errors":[{"msg":...}]}); bodies that do not parse are carried as a
// single raw message.
func ClassifyResponse(statusCode int, header http.Header, body []byte) error {
	messages := parseV1Messages(body)

	return classify(statusCode, header, messages, nil)
}

// ClassifyV2Response translates a v2 failure response into the same
// taxonomy as ClassifyResponse, so callers handle one error family
// regardless of which API generation produced the failure.
func ClassifyV2Response(statusCode int, header http.Header, body []byte) error {
	var envelope V2ErrorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil || envelope.Error == nil {
		return classify(statusCode, header, parseV1Messages(body), nil)
	}

	messages := []string{}
	if envelope.Error.Message != "" {
		messages = append(messages, envelope.Error.Message)
	}

	var fields map[string][]string

	if len(envelope.Error.Validations) > 0 {
		fields = make(map[string][]string)
		for _, v := range envelope.Error.Validations {
			messages = append(messages, v.Message)
			fields[v.Field] = append(fields[v.Field], v.Message)
		}
	}

	return classify(statusCode, header, messages, fields)
}

func classify(statusCode int, header http.Header, messages []string, fields map[string][]string) error {
	base := HTTPError{StatusCode: statusCode, Messages: messages}

	switch {
	case statusCode == http.StatusUnauthorized:
		return &AuthenticationError{HTTPError: base}
	case statusCode == http.StatusForbidden:
		return &AuthorizationError{HTTPError: base}
	case statusCode == http.StatusNotFound:
		return &NotFoundError{HTTPError: base}
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return &ValidationError{HTTPError: base, Fields: fields}
	case statusCode == http.StatusTooManyRequests:
		return &RateLimitError{HTTPError: base, RetryAfter: parseRetryAfter(header)}
	case statusCode >= http.StatusInternalServerError:
		return &ServerError{HTTPError: base}
	default:
		return &base
	}
}

func parseV1Messages(body []byte) []string {
	var envelope ErrorsEnvelope

	err := json.Unmarshal(body, &envelope)
	if err == nil && len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Msg)
		}

		return messages
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil
	}

	return []string{text}
}

func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}

	seconds, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || seconds < 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	var notFound *NotFoundError

	return errors.As(err, &notFound)
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	var authn *AuthenticationError

	return errors.As(err, &authn)
}

// IsAuthorization checks if the error is an authorization error.
func IsAuthorization(err error) bool {
	var authz *AuthorizationError

	return errors.As(err, &authz)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	var validation *ValidationError

	return errors.As(err, &validation)
}

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool {
	var rateLimit *RateLimitError

	return errors.As(err, &rateLimit)
}

// IsNetwork checks if the error is a transport-level failure.
func IsNetwork(err error) bool {
	var network *NetworkError

	return errors.As(err, &network)
}

// Common static errors that can be wrapped with context.
var (
	ErrEndpointRequired = errors.New("API endpoint is required")
	ErrConfigRequired   = errors.New("config is required")
	ErrNoMoreItems      = errors.New("no more items")
	ErrUnknownShape     = errors.New("unknown response shape")
)
