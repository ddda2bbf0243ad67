package utils

import "fmt"

// ConfigurationError is fatal to a run and is raised before any probing
// starts: invalid arguments, unreadable inputs, malformed config files.
type ConfigurationError struct {
	Field string
	Err   error
}

func NewConfigurationError(field string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: err}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
