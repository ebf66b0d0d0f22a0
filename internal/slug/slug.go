// Package slug produces the opaque identifiers used to address design
// requests and to lay out uploaded images on disk.
package slug

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// Length is the number of hex characters in a design request slug.
	Length = 8
	// Buckets is the number of image subdirectories files are spread across.
	Buckets = 100
)

// Generate returns a short random hex token. Uniqueness is statistical only;
// callers persisting slugs must rely on a storage-level unique constraint.
func Generate() string {
	return token()[:Length]
}

// StoragePath returns images/<bucket>/<token><ext> for an uploaded file. The
// token is fresh on every call so identical filenames never collide.
func StoragePath(originalFilename string) string {
	tok := token()
	ext := filepath.Ext(originalFilename)
	return fmt.Sprintf("images/%d/%s%s", Bucket(tok), tok, ext)
}

// Bucket maps a hex token to a directory bucket: its first byte modulo Buckets.
func Bucket(tok string) int {
	if len(tok) < 2 {
		return 0
	}
	b, err := strconv.ParseUint(tok[:2], 16, 8)
	if err != nil {
		return 0
	}
	return int(b) % Buckets
}

func token() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
