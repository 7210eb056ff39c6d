// Package provider defines the storage abstraction that hotfolder routing and
// art copies write through.
//
// Providers expose a small surface of listing, metadata and streaming
// operations over a rooted tree of keys. Optional behavior is discovered with
// the capability interfaces in capabilities.go.
package provider

import (
	"context"
	"io/fs"
	"time"
)

// Provider inspects objects under a root.
//
// Implementations should be safe for concurrent use.
type Provider interface {
	// Head returns metadata for a single object.
	// Returns ErrNotFound if the object does not exist.
	Head(ctx context.Context, key string) (*ObjectMeta, error)

	Close() error
}

// ObjectSummary identifies an object and its size.
type ObjectSummary struct {
	// Key is the slash-separated path relative to the provider root.
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectMeta is the metadata returned by Head.
type ObjectMeta struct {
	ObjectSummary

	// Mode holds the permission bits of the object.
	Mode fs.FileMode
}

// ProviderType identifies a storage backend.
type ProviderType string

const (
	// ProviderFile is a local or mounted filesystem tree.
	ProviderFile ProviderType = "file"
)

func (p ProviderType) String() string {
	return string(p)
}
