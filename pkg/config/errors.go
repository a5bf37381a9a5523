package config

import (
	"errors"
	"fmt"

	"github.com/flatconf/flatconf/pkg/value"
)

var (
	// ErrKeyNotFound matches every *NotFoundError.
	ErrKeyNotFound = errors.New("parameter not found")

	// ErrTypeMismatch matches every *TypeMismatchError.
	ErrTypeMismatch = errors.New("parameter type mismatch")
)

// NotFoundError is returned when a path is not in the configuration.
type NotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("parameter %q not found", e.Path)
}

// Is reports whether target is ErrKeyNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// TypeMismatchError is returned by a typed getter when the stored value
// cannot be read as the requested kind.
type TypeMismatchError struct {
	Path     string
	Expected value.Kind
	Actual   value.Kind
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter %q is %s, not %s", e.Path, e.Actual, e.Expected)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
