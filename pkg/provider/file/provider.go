package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/3leaps/gohotfolder/pkg/provider"
)

// Provider implements provider.Provider for a local or mounted directory.
//
// Keys are slash-separated paths relative to the base directory.
type Provider struct {
	baseDir string
}

var (
	_ provider.Provider       = (*Provider)(nil)
	_ provider.ObjectGetter   = (*Provider)(nil)
	_ provider.ObjectPutter   = (*Provider)(nil)
	_ provider.DirLister      = (*Provider)(nil)
	_ provider.DirMaker       = (*Provider)(nil)
	_ provider.MetadataSetter = (*Provider)(nil)
)

type Config struct {
	BaseDir string
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("base dir is required")
	}
	return nil
}

func New(cfg Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Provider{baseDir: filepath.Clean(cfg.BaseDir)}, nil
}

// BaseDir returns the cleaned root directory.
func (p *Provider) BaseDir() string { return p.baseDir }

func (p *Provider) Close() error { return nil }

// Path returns the absolute filesystem path for key.
func (p *Provider) Path(key string) (string, error) {
	return p.fullPath(key)
}

func (p *Provider) Head(ctx context.Context, key string) (*provider.ObjectMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := p.fullPath(key)
	if err != nil {
		return nil, p.wrapError("Head", key, err)
	}
	st, err := os.Stat(full)
	if err != nil {
		return nil, p.wrapError("Head", key, err)
	}
	if st.IsDir() {
		return nil, p.wrapError("Head", key, provider.ErrNotFound)
	}

	return &provider.ObjectMeta{
		ObjectSummary: provider.ObjectSummary{
			Key:          strings.TrimPrefix(key, "/"),
			Size:         st.Size(),
			LastModified: st.ModTime(),
		},
		Mode: st.Mode().Perm(),
	}, nil
}

func (p *Provider) GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	full, err := p.fullPath(key)
	if err != nil {
		return nil, 0, p.wrapError("GetObject", key, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, 0, p.wrapError("GetObject", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, p.wrapError("GetObject", key, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, 0, p.wrapError("GetObject", key, provider.ErrNotFound)
	}
	return f, st.Size(), nil
}

// PutObject writes body to a hidden temp file beside the destination and
// renames it into place, so print drivers polling the folder never pick up
// a partial file. Missing parent folders are created.
func (p *Provider) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_ = contentLength
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := p.fullPath(key)
	if err != nil {
		return p.wrapError("PutObject", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return p.wrapError("PutObject", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".gohotfolder-put-*")
	if err != nil {
		return p.wrapError("PutObject", key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return p.wrapError("PutObject", key, err)
	}
	if err := tmp.Close(); err != nil {
		return p.wrapError("PutObject", key, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		return p.wrapError("PutObject", key, err)
	}
	return nil
}

func (p *Provider) ListDirs(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := p.fullPath(prefix)
	if err != nil {
		return nil, p.wrapError("ListDirs", prefix, err)
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, p.wrapError("ListDirs", prefix, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
			continue
		}
		// Symlinked folders are common on shared print servers.
		if e.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(filepath.Join(full, e.Name())); err == nil && st.IsDir() {
				dirs = append(dirs, e.Name())
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (p *Provider) DirExists(ctx context.Context, prefix string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	full, err := p.fullPath(prefix)
	if err != nil {
		return false, p.wrapError("DirExists", prefix, err)
	}
	st, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, p.wrapError("DirExists", prefix, err)
	}
	return st.IsDir(), nil
}

// MakeDir creates prefix and any missing parents. Existing folders are fine.
func (p *Provider) MakeDir(ctx context.Context, prefix string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := p.fullPath(prefix)
	if err != nil {
		return p.wrapError("MakeDir", prefix, err)
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return p.wrapError("MakeDir", prefix, err)
	}
	return nil
}

func (p *Provider) SetMetadata(ctx context.Context, key string, modTime time.Time, mode fs.FileMode) error {
	_ = ctx
	full, err := p.fullPath(key)
	if err != nil {
		return p.wrapError("SetMetadata", key, err)
	}
	if mode != 0 {
		if err := os.Chmod(full, mode.Perm()); err != nil {
			return p.wrapError("SetMetadata", key, err)
		}
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(full, modTime, modTime); err != nil {
			return p.wrapError("SetMetadata", key, err)
		}
	}
	return nil
}

func (p *Provider) fullPath(key string) (string, error) {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(filepath.ToSlash(key), "/")
	clean := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+key)), "/")
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key path")
	}
	return filepath.Join(p.baseDir, filepath.FromSlash(clean)), nil
}

func (p *Provider) wrapError(op, key string, err error) error {
	wrapped := &provider.ProviderError{Op: op, Provider: provider.ProviderFile, Root: p.baseDir, Key: key, Err: err}
	if err == nil {
		wrapped.Err = fmt.Errorf("unknown error")
	}
	// Normalize common filesystem errors to provider sentinels.
	if os.IsNotExist(err) {
		wrapped.Err = fmt.Errorf("%w: %v", provider.ErrNotFound, err)
	}
	if os.IsPermission(err) {
		wrapped.Err = fmt.Errorf("%w: %v", provider.ErrAccessDenied, err)
	}
	return wrapped
}
