package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeRouteDenied is returned when the whitelist rejects a service/path pair
	ErrTypeRouteDenied ErrorType = "route_denied"
	// ErrTypeRouteNotConfigured is returned when no route entry exists for a service
	ErrTypeRouteNotConfigured ErrorType = "route_not_configured"
	// ErrTypeCircuitOpen is returned when a breaker rejects a call before any network I/O
	ErrTypeCircuitOpen ErrorType = "circuit_open"
	// ErrTypeTransport represents failures to complete the exchange with an upstream
	ErrTypeTransport ErrorType = "transport_failure"
	// ErrTypeConnection represents connection-related errors to gateway dependencies
	ErrTypeConnection ErrorType = "connection"
	// ErrTypeValidation represents validation errors
	ErrTypeValidation ErrorType = "validation"
	// ErrTypeConfig represents configuration errors
	ErrTypeConfig ErrorType = "config"
	// ErrTypeNotFound represents resource not found errors
	ErrTypeNotFound ErrorType = "not_found"
	// ErrTypeInternal represents internal system errors
	ErrTypeInternal ErrorType = "internal"
	// ErrTypeTimeout represents timeout errors
	ErrTypeTimeout ErrorType = "timeout"
	// ErrTypeCanceled is returned when the caller abandoned the request
	ErrTypeCanceled ErrorType = "canceled"
)

// StatusClientClosedRequest is reported when the caller went away before the
// upstream answered
const StatusClientClosedRequest = 499

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	parts := []string{string(e.Type), e.Message}

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		contextParts := make([]string, 0, len(keys))
		for _, k := range keys {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(contextParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// RouteDeniedError reports a whitelist rejection for service and path
func RouteDeniedError(service, path string) *AppError {
	return &AppError{
		Type:    ErrTypeRouteDenied,
		Message: "request not allowed by whitelist",
		Context: map[string]interface{}{"service": service, "path": path},
	}
}

// RouteNotConfiguredError reports a service with no route entry
func RouteNotConfiguredError(service string) *AppError {
	return &AppError{
		Type:    ErrTypeRouteNotConfigured,
		Message: "service not configured",
		Context: map[string]interface{}{"service": service},
	}
}

// CircuitOpenError reports a call rejected by an open breaker
func CircuitOpenError(service string) *AppError {
	return &AppError{
		Type:    ErrTypeCircuitOpen,
		Message: "service temporarily unavailable",
		Context: map[string]interface{}{"service": service},
	}
}

// TransportError wraps a failure to reach an upstream. Unavailable marks
// connection-refused and timeout failures, which map to 503 instead of 502.
func TransportError(msg string, cause error, unavailable bool) *AppError {
	code := "BAD_GATEWAY"
	if unavailable {
		code = "UPSTREAM_UNAVAILABLE"
	}
	return &AppError{
		Type:    ErrTypeTransport,
		Message: msg,
		Code:    code,
		Cause:   cause,
	}
}

// ConnectionError creates a new connection error
func ConnectionError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeConnection,
		Message: msg,
		Cause:   cause,
	}
}

// ValidationError creates a new validation error
func ValidationError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeValidation,
		Message: msg,
	}
}

// ConfigError creates a new configuration error
func ConfigError(msg string) *AppError {
	return &AppError{
		Type:    ErrTypeConfig,
		Message: msg,
	}
}

// NotFoundError creates a new not found error
func NotFoundError(resource string) *AppError {
	return &AppError{
		Type:    ErrTypeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// InternalError creates a new internal error
func InternalError(msg string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeInternal,
		Message: msg,
		Cause:   cause,
	}
}

// TimeoutError creates a new timeout error
func TimeoutError(operation string) *AppError {
	return &AppError{
		Type:    ErrTypeTimeout,
		Message: fmt.Sprintf("timeout during %s", operation),
	}
}

// CanceledError reports an operation abandoned by its caller
func CanceledError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrTypeCanceled,
		Message: fmt.Sprintf("%s canceled by caller", operation),
		Cause:   cause,
	}
}

// IsType checks if an error, or anything it wraps, is an AppError of a specific type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// GetType returns the error type if it's an AppError, otherwise returns ErrTypeInternal
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return ErrTypeInternal
	}

	return appErr.Type
}

// HTTPStatus maps an error to the status code returned to inbound callers
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case ErrTypeRouteDenied:
		return http.StatusForbidden
	case ErrTypeRouteNotConfigured, ErrTypeValidation:
		return http.StatusBadRequest
	case ErrTypeCircuitOpen:
		return http.StatusServiceUnavailable
	case ErrTypeTransport:
		if appErr.Code == "UPSTREAM_UNAVAILABLE" {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	case ErrTypeNotFound:
		return http.StatusNotFound
	case ErrTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrTypeCanceled:
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
