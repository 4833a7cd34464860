package validation

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"service-gateway/internal/common/errors"
)

// Inbound request limits
const (
	MaxServiceNameLength = 50
	MaxPathLength        = 500
	MaxQueryParams       = 100
	MaxQueryKeyLength    = 100
	MaxQueryValueLength  = 1000
	MaxHeaderNameLength  = 100
	MaxHeaderValueLength = 8192
)

// AllowedMethods are the methods the gateway forwards
var AllowedMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
	http.MethodPatch, http.MethodHead, http.MethodOptions,
}

// Checker accumulates validation messages
type Checker struct {
	messages []string
}

// NewChecker creates an empty checker
func NewChecker() *Checker {
	return &Checker{}
}

// RequireString fails when value is blank
func (c *Checker) RequireString(value, name string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.add("%s is required", name)
	}
	return c
}

// RequireMaxLength fails when value is longer than max bytes
func (c *Checker) RequireMaxLength(value string, max int, name string) *Checker {
	if len(value) > max {
		c.add("%s must not exceed %d characters", name, max)
	}
	return c
}

// RequireMatch fails when value does not match pattern. Blank values are
// left to RequireString.
func (c *Checker) RequireMatch(value string, pattern *regexp.Regexp, name, description string) *Checker {
	if value != "" && !pattern.MatchString(value) {
		c.add("%s must %s", name, description)
	}
	return c
}

// RequireOneOf fails when value, compared case-insensitively, is not allowed
func (c *Checker) RequireOneOf(value string, allowed []string, name string) *Checker {
	if value == "" {
		return c
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return c
		}
	}
	c.add("%s must be one of: %s", name, strings.Join(allowed, ", "))
	return c
}

// Check records message when ok is false
func (c *Checker) Check(ok bool, format string, args ...interface{}) *Checker {
	if !ok {
		c.add(format, args...)
	}
	return c
}

// HasErrors reports whether any rule failed
func (c *Checker) HasErrors() bool {
	return len(c.messages) > 0
}

// Messages returns the failure messages in the order they were recorded
func (c *Checker) Messages() []string {
	return append([]string(nil), c.messages...)
}

// Error returns a validation AppError carrying every message, or nil
func (c *Checker) Error(summary string) error {
	if !c.HasErrors() {
		return nil
	}
	return errors.ValidationError(summary).WithContext("errors", c.Messages())
}

func (c *Checker) add(format string, args ...interface{}) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

// Inbound is the part of a gateway request that is checked before forwarding
type Inbound struct {
	Service string
	Path    string
	Method  string
	Query   [][2]string
	Headers http.Header
}

// ValidateRequest checks service name, path, method, query parameters and
// headers against the gateway limits
func ValidateRequest(in Inbound) error {
	c := NewChecker()
	checkServiceName(c, in.Service)
	checkPath(c, in.Path)

	c.RequireString(in.Method, "HTTP method").
		RequireOneOf(in.Method, AllowedMethods, "HTTP method")

	c.Check(len(in.Query) <= MaxQueryParams, "too many query parameters, maximum allowed: %d", MaxQueryParams)
	for _, kv := range in.Query {
		key, value := kv[0], kv[1]
		c.Check(strings.TrimSpace(key) != "", "query parameter key cannot be empty")
		c.Check(len(key) <= MaxQueryKeyLength, "query parameter key '%s' exceeds maximum length of %d characters", truncate(key), MaxQueryKeyLength)
		c.Check(len(value) <= MaxQueryValueLength, "query parameter value for '%s' exceeds maximum length of %d characters", truncate(key), MaxQueryValueLength)
	}

	for name, values := range in.Headers {
		c.Check(len(name) <= MaxHeaderNameLength, "header name '%s' exceeds maximum length of %d characters", truncate(name), MaxHeaderNameLength)
		for _, v := range values {
			c.Check(len(v) <= MaxHeaderValueLength, "header value for '%s' exceeds maximum size of %d bytes", truncate(name), MaxHeaderValueLength)
		}
	}

	return c.Error("request validation failed")
}

// ValidateServiceName checks a service name on its own
func ValidateServiceName(name string) error {
	c := NewChecker()
	checkServiceName(c, name)
	return c.Error("invalid service name")
}

// IsValidServiceName reports whether name passes the service name rules
func IsValidServiceName(name string) bool {
	return name != "" && len(name) <= MaxServiceNameLength && serviceNamePattern.MatchString(name)
}

// IsValidPath reports whether path passes the path rules
func IsValidPath(path string) bool {
	return path != "" && len(path) <= MaxPathLength && pathPattern.MatchString(path)
}

// IsValidMethod reports whether method is forwardable
func IsValidMethod(method string) bool {
	for _, m := range AllowedMethods {
		if strings.EqualFold(method, m) {
			return true
		}
	}
	return false
}

func checkServiceName(c *Checker, name string) {
	c.RequireString(name, "service name").
		RequireMaxLength(name, MaxServiceNameLength, "service name").
		RequireMatch(name, serviceNamePattern, "service name", "contain only alphanumeric characters, hyphens and underscores")
}

func checkPath(c *Checker, path string) {
	c.RequireString(path, "path").
		RequireMaxLength(path, MaxPathLength, "path").
		RequireMatch(path, pathPattern, "path", "start with / and contain only valid path characters")
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
