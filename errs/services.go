package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Third-Party API Errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrUpstream          = errors.New("upstream request failed")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// Networking & Transport Errors
var (
	ErrTCPTimeout         = errors.New("TCP connection timeout")
	ErrServiceUnreachable = errors.New("service unreachable")
)

// Serialization & Encoding Errors
var (
	ErrJSONUnmarshal = errors.New("JSON unmarshal error")
)

func NewRateLimitError(service string, retryAfter time.Duration) *ApiErr {
	details := fmt.Sprintf("Rate limit exceeded for %s service", service)
	if retryAfter > 0 {
		details = fmt.Sprintf("%s, retry after %v", details, retryAfter)
	}
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    details,
		Field:      "rate_limit",
	}
}

// NewUpstreamError reports a non-success response from a third-party API
func NewUpstreamError(service string, statusCode int, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstream,
		Details:    fmt.Sprintf("%s responded with status %d", service, statusCode),
		Cause:      cause,
		Field:      "upstream",
	}
}

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration: %s", configName),
		Cause:      cause,
		Field:      "config",
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Environment variable %s is not set", varName),
		Field:      "environment",
	}
}

// Networking & Transport Error Constructors
func NewTCPTimeoutError(host string, timeout time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusGatewayTimeout,
		err:        ErrTCPTimeout,
		Details:    fmt.Sprintf("TCP connection timeout to %s after %v", host, timeout),
		Field:      "connection",
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
		Field:      "service_discovery",
	}
}

func NewJSONUnmarshalError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrJSONUnmarshal,
		Details:    fmt.Sprintf("JSON unmarshal error in %s", operation),
		Cause:      cause,
		Field:      "json",
	}
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

// IsUpstreamError reports whether err came from a failed third-party call
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrRateLimitExceeded) ||
		errors.Is(err, ErrTCPTimeout) || errors.Is(err, ErrServiceUnreachable) ||
		errors.Is(err, ErrJSONUnmarshal)
}
