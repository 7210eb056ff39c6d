package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrNotFound indicates the requested object or folder does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrProviderUnavailable indicates the backing store cannot be reached,
	// for example an unmounted network share.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// ProviderError wraps a backend error with the operation and key.
type ProviderError struct {
	Op       string
	Provider ProviderType

	// Root is the provider root directory, if known.
	Root string
	Key  string
	Err  error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Root != "" && e.Key != "":
		return fmt.Sprintf("%s %s: %s/%s: %v", e.Provider, e.Op, e.Root, e.Key, e.Err)
	case e.Key != "":
		return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Op, e.Key, e.Err)
	case e.Root != "":
		return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Op, e.Root, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates a missing object or folder.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAccessDenied returns true if the error indicates insufficient permissions.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}
