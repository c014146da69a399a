package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrConfiguration signals a declaring entity without usable field metadata.
	ErrConfiguration = errors.New("improperly configured")
	// ErrParse signals a request value that must be numeric but is not.
	ErrParse = errors.New("parse error")
)

// ConfigurationError wraps ErrConfiguration with the offending entity.
// It is a setup defect: never retried, never degraded into an empty query.
type ConfigurationError struct {
	Entity string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Entity, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a configuration error for entity.
func NewConfigurationError(entity, format string, args ...any) error {
	return &ConfigurationError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}

// ParseError wraps ErrParse with the request parameter that failed.
type ParseError struct {
	Param string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: parameter %q value %q", ErrParse.Error(), e.Param, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError creates a parse error for a request parameter.
func NewParseError(param, value string, err error) error {
	return &ParseError{Param: param, Value: value, Err: err}
}
