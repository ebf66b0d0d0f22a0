package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/spf13/afero"
	"github.com/wichananm65/rior-backend/internal/slug"
)

// URLPrefix is where stored files are served from.
const URLPrefix = "/media"

// Storage writes uploaded images under bucketed paths of a media root.
type Storage struct {
	fs afero.Fs
}

// NewStorage stores files in fs. Production callers pass a base-path fs
// rooted at the media directory; tests pass afero.NewMemMapFs().
func NewStorage(fs afero.Fs) *Storage {
	return &Storage{fs: fs}
}

// NewDiskStorage roots storage at dir on the local disk.
func NewDiskStorage(dir string) *Storage {
	return NewStorage(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// Save copies an uploaded file to a fresh storage path and returns that path,
// relative to the media root.
func (s *Storage) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()
	return s.Write(fh.Filename, src)
}

// Write stores r under a path generated from the original filename.
func (s *Storage) Write(originalName string, r io.Reader) (string, error) {
	p := slug.StoragePath(originalName)
	if err := s.fs.MkdirAll(path.Dir(fsPath(p)), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := afero.WriteReader(s.fs, fsPath(p), r); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Storage) Remove(p string) error {
	if p == "" {
		return nil
	}
	if err := s.fs.Remove(fsPath(p)); err != nil {
		if ok, _ := afero.Exists(s.fs, fsPath(p)); !ok {
			return nil
		}
		return err
	}
	return nil
}

// fsPath anchors a stored path at the fs root, which is how http.FileSystem
// lookups address it.
func fsPath(p string) string {
	return "/" + strings.TrimPrefix(p, "/")
}

// URL maps a stored path to the path clients fetch it from.
func URL(p string) string {
	return path.Join(URLPrefix, p)
}

// FileSystem exposes the stored files over net/http.
func (s *Storage) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}

// Handler serves stored files; mount it under URLPrefix.
func (s *Storage) Handler() fiber.Handler {
	return filesystem.New(filesystem.Config{
		Root:   s.FileSystem(),
		Browse: false,
	})
}
