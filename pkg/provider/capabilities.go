package provider

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// Optional provider capability interfaces, detected with type assertions.

// ObjectGetter can open objects as a stream.
type ObjectGetter interface {
	GetObject(ctx context.Context, key string) (body io.ReadCloser, contentLength int64, err error)
}

// ObjectPutter can create or overwrite objects. Writes must be atomic: a
// reader polling the destination never sees a partial object.
type ObjectPutter interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error
}

// DirLister lists the immediate child folders of a prefix.
type DirLister interface {
	// ListDirs returns child folder names in sorted order. An empty prefix
	// lists the root.
	ListDirs(ctx context.Context, prefix string) ([]string, error)

	// DirExists reports whether prefix names an existing folder.
	DirExists(ctx context.Context, prefix string) (bool, error)
}

// DirMaker can create a folder and any missing parents.
type DirMaker interface {
	MakeDir(ctx context.Context, prefix string) error
}

// MetadataSetter can apply modification time and permission bits to an
// existing object.
type MetadataSetter interface {
	SetMetadata(ctx context.Context, key string, modTime time.Time, mode fs.FileMode) error
}
