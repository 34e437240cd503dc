package config

import "fmt"

// NotFoundError indicates the configuration file itself is missing.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found at: %s", e.Path)
}

// ParseError indicates the configuration file is not valid YAML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing configuration file: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError indicates the decoded configuration is structurally
// invalid or missing a required field. Malformed optional styling fields
// are not validation errors; they are replaced by defaults and reported
// as Diagnostics.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}
