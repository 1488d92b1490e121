package imagefile

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
)

// Extensions lists the file name suffixes Scan accepts, matched
// case-insensitively.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}

// IsImage reports whether name ends in one of Extensions.
func IsImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Scan returns the image files directly inside dir, sorted by full path.
// Subdirectories are not descended into. A missing dir, or a path that is
// not a directory, yields an ErrCodeFolderNotFound error. An empty result
// is not an error.
func Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errs.New(errs.ErrCodeFolderNotFound, "folder does not exist: %s", dir)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "cannot access %s", dir)
	}
	if !info.IsDir() {
		return nil, errs.New(errs.ErrCodeFolderNotFound, "not a folder: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "cannot list %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
