package contentregistry

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotRegistered indicates a content type was not found in the registry
	ErrNotRegistered = errors.New("content type not registered")

	// ErrAlreadyRegistered indicates a duplicate content type registration
	ErrAlreadyRegistered = errors.New("content type already registered")

	// ErrInvalidVersion indicates a version token that failed negotiation
	ErrInvalidVersion = errors.New("invalid version")

	// ErrItemNotFound indicates a storage adapter could not find an item
	ErrItemNotFound = errors.New("item not found")
)

// NotRegisteredError reports a lookup of an unknown content type.
type NotRegisteredError struct {
	ID string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("Content [%s] is not registered.", e.ID)
}

func (e *NotRegisteredError) Unwrap() error {
	return ErrNotRegistered
}

// VersionError reports a requested version the backend cannot serve.
type VersionError struct {
	Latest Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("Invalid version. Latest version is [%s].", e.Latest)
}

func (e *VersionError) Unwrap() error {
	return ErrInvalidVersion
}

// RegistrationError reports a failed content type registration.
type RegistrationError struct {
	ID  string
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed for content type %q: %v", e.ID, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
