package inference

import (
	"errors"
	"fmt"
)

// ErrConfigLoad marks failures to fetch or decode the model schema.
var ErrConfigLoad = errors.New("inference: failed to load configuration")

// ServerError is returned for non-2xx responses. Detail carries the server's
// "detail" field, or the HTTP status text when the body has none.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("inference: server returned %d: %s", e.Status, e.Detail)
}

// NetworkError wraps transport failures and undecodable success bodies.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("inference: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConfigError wraps the cause of a schema load failure. It matches
// ErrConfigLoad with errors.Is.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return ErrConfigLoad.Error() + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfigLoad
}

// ConfigLoadError wraps err in a *ConfigError. A nil err stays nil.
func ConfigLoadError(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Err: err}
}
