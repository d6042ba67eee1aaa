package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// TempSuffix marks files being written; leftovers are removed on interrupt.
const TempSuffix = ".tmp"

// NewMinifier collapses whitespace, drops comments and minifies inline
// styles and scripts. Document tags, end tags and attribute quotes stay.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})

	return m
}

type Writer struct {
	root     string
	filename string
	min      *minify.M
}

func NewWriter(root, filename string) *Writer {
	if filename == "" {
		filename = DefaultFilename
	}

	return &Writer{
		root:     root,
		filename: filename,
		min:      NewMinifier(),
	}
}

// Write minifies doc and stores it at the output path of page, replacing
// any previous file. It returns the path and the number of bytes written.
func (w *Writer) Write(page, doc string) (string, int64, error) {
	path, err := Path(w.root, page, w.filename)
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", page, err)
	}

	// MkdirAll already treats an existing directory as success
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", 0, fmt.Errorf("create output folder: %w", err)
	}

	out, err := w.min.String("text/html", doc)
	if err != nil {
		return "", 0, fmt.Errorf("minify: %w", err)
	}

	if err := writeFile(path, []byte(out)); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", path, err)
	}

	return path, int64(len(out)), nil
}

func writeFile(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+"-*"+TempSuffix)
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Chmod(tmp, 0644); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
