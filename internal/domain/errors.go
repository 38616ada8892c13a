package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
)

// ConfigurationError reports required settings that are missing. It is fatal
// at startup: dependent functionality must not be served.
type ConfigurationError struct {
	Fields []string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + strings.Join(e.Fields, ", ")
}

// ProviderError is an upstream failure: a non-2xx response, a structured error
// body, or a transport error. StatusCode is 0 when no response was received.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	parts := []string{e.Provider}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("upstream status %d", e.StatusCode))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if e.Body != "" {
		parts = append(parts, e.Body)
	}
	if len(parts) == 1 {
		parts = append(parts, "upstream error")
	}
	return strings.Join(parts, ": ")
}

func (e *ProviderError) Unwrap() error { return e.Err }
