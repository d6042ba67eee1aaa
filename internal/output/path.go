package output

import (
	"errors"
	"path/filepath"
	"strings"
)

const DefaultFilename = "404.html"

var ErrPathEscapesRoot = errors.New("page path escapes the output root")

// Path maps a site path onto the output tree: "/tea/x" becomes
// <root>/tea/x/<filename> and "/" becomes <root>/<filename>.
func Path(root, page, filename string) (string, error) {
	rel := strings.TrimPrefix(page, "/")

	parts := []string{root}
	parts = append(parts, strings.Split(rel, "/")...)
	parts = append(parts, filename)
	p := filepath.Join(parts...)

	r, err := filepath.Rel(filepath.Clean(root), p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", ErrPathEscapesRoot
	}

	return p, nil
}
