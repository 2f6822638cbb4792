// Package assets owns the lifecycle of uploaded product images: accepting
// and validating uploads, serving-path translation, best-effort deletion and
// reclamation of orphaned files.
package assets

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stationeryhq/stationery-server/pkg/common"
)

const (
	// MaxUploadSize caps a single uploaded file at 5 MB.
	MaxUploadSize = 5 << 20

	// PublicPrefix is the URL prefix uploaded files are served under.
	PublicPrefix = "/uploads/products"
)

var (
	ErrUnsupportedType = errors.New("file upload only supports: jpeg|jpg|png|gif")
	ErrFileTooLarge    = errors.New("file exceeds the 5MB upload limit")
)

var allowedExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// Store writes uploaded image files into a fixed directory tree and hands
// out the public paths they are served under.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload directory %s", dir)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save validates and persists a single uploaded file, returning the public
// path to reference it by. The declared media type and the file extension
// must jointly be one of jpeg/jpg/png/gif. The generated name combines the
// upload field identifier with a nanosecond timestamp to avoid collisions.
func (s *Store) Save(field string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimeType := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !allowedExts[ext] || !allowedMimeTypes[mimeType] {
		return "", ErrUnsupportedType
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open uploaded file")
	}
	defer src.Close()

	name := field + "-" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create asset file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxUploadSize+1)); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "write asset file")
	}

	return path.Join(PublicPrefix, name), nil
}

// IsLocal reports whether ref points at a file owned by this store, as
// opposed to an external image URL.
func (s *Store) IsLocal(ref string) bool {
	return strings.HasPrefix(ref, PublicPrefix+"/")
}

// Delete removes a stored file by its public path. It is best-effort:
// failures (including the file already being absent) are logged and never
// propagated.
func (s *Store) Delete(publicPath string) {
	if !s.IsLocal(publicPath) {
		return
	}
	full := s.localPath(publicPath)
	if !common.FileExists(full) {
		zap.L().Debug("asset already absent", zap.String("path", full))
		return
	}
	if err := os.Remove(full); err != nil {
		zap.L().Warn("failed to delete asset", zap.String("path", full), zap.Error(err))
		return
	}
	zap.L().Info("deleted asset", zap.String("path", full))
}

// Sweep removes files in the upload directory that no product references
// and that are older than grace. The grace window keeps in-flight uploads,
// which exist on disk before their product record does, from being
// collected. Returns the number of files removed.
func (s *Store) Sweep(referenced map[string]struct{}, grace time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, errors.Wrap(err, "read upload directory")
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		publicPath := path.Join(PublicPrefix, entry.Name())
		if _, ok := referenced[publicPath]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			zap.L().Warn("failed to sweep orphaned asset",
				zap.String("name", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

func (s *Store) localPath(publicPath string) string {
	return filepath.Join(s.dir, path.Base(publicPath))
}
