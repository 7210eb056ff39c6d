// Package transfer copies single files between providers, carrying the
// source modification time and permission bits to the destination.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/3leaps/gohotfolder/pkg/provider"
	"github.com/3leaps/gohotfolder/pkg/provider/file"
)

// Result describes one completed copy.
type Result struct {
	SrcKey string `json:"src_key"`
	DstKey string `json:"dst_key"`
	Bytes  int64  `json:"bytes"`

	// MetadataPreserved is false when the destination cannot apply metadata
	// or applying it failed; the copy itself still succeeded.
	MetadataPreserved bool `json:"metadata_preserved"`
}

// CopyObject streams srcKey from src to dstKey on dst.
//
// The source is inspected with Head first; a size change between Head and
// the read is reported as SizeMismatchError. When dst implements
// provider.MetadataSetter the source mtime and mode are applied after the
// write.
func CopyObject(ctx context.Context, src, dst provider.Provider, srcKey, dstKey string) (*Result, error) {
	getter, ok := src.(provider.ObjectGetter)
	if !ok {
		return nil, errors.New("source provider does not support GetObject")
	}
	putter, ok := dst.(provider.ObjectPutter)
	if !ok {
		return nil, errors.New("target provider does not support PutObject")
	}

	meta, err := src.Head(ctx, srcKey)
	if err != nil {
		return nil, err
	}

	body, gotSize, err := getter.GetObject(ctx, srcKey)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	if gotSize >= 0 && meta.Size != gotSize {
		return nil, &SizeMismatchError{Key: srcKey, Expected: meta.Size, Got: gotSize}
	}

	if err := putter.PutObject(ctx, dstKey, body, gotSize); err != nil {
		return nil, err
	}

	res := &Result{SrcKey: srcKey, DstKey: dstKey, Bytes: gotSize}
	if setter, ok := dst.(provider.MetadataSetter); ok {
		if err := setter.SetMetadata(ctx, dstKey, meta.LastModified, meta.Mode); err == nil {
			res.MetadataPreserved = true
		}
	}
	return res, nil
}

// CopyFile copies the file at srcPath into dstDir as name. Both sides go
// through file providers, so the destination write is atomic.
func CopyFile(ctx context.Context, srcPath, dstDir, name string) (*Result, error) {
	src, err := file.New(file.Config{BaseDir: filepath.Dir(srcPath)})
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := file.New(file.Config{BaseDir: dstDir})
	if err != nil {
		return nil, fmt.Errorf("open destination: %w", err)
	}
	defer func() { _ = dst.Close() }()

	return CopyObject(ctx, src, dst, filepath.Base(srcPath), name)
}
