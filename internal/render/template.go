package render

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dragsbruh/notfoundgen/internal/meta"
)

const DefaultMarker = "<header-tags />"

var (
	ErrMarkerMissing  = errors.New("template does not contain the marker")
	ErrMarkerRepeated = errors.New("template contains the marker more than once")
)

// DefaultTemplate is the starter page written by `template init`.
//
//go:embed default.html
var DefaultTemplate string

// Template is loaded once and shared read-only by every page.
type Template struct {
	text   string
	marker string
}

func LoadTemplate(path, marker string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	t, err := NewTemplate(string(b), marker)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

func NewTemplate(text, marker string) (*Template, error) {
	if marker == "" {
		marker = DefaultMarker
	}

	switch strings.Count(text, marker) {
	case 0:
		return nil, fmt.Errorf("%w %q", ErrMarkerMissing, marker)
	case 1:
	default:
		return nil, fmt.Errorf("%w %q", ErrMarkerRepeated, marker)
	}

	return &Template{text: text, marker: marker}, nil
}

// Render substitutes the head markup for md into the template. Absent
// title and favicon render as the text "null".
func (t *Template) Render(md meta.Metadata) string {
	lines := make([]string, 0, 2+len(md.MetaTags))
	lines = append(lines,
		"<title>"+orNull(md.Title)+"</title>",
		`<link rel="icon" href="`+orNull(md.Favicon)+`" />`,
	)

	for _, tag := range md.MetaTags {
		lines = append(lines, renderMeta(tag))
	}

	return strings.Replace(t.text, t.marker, strings.Join(lines, "\n"), 1)
}

func renderMeta(tag meta.Tag) string {
	attrs := make([]string, 0, len(tag))
	for _, a := range tag {
		if a.Value == nil {
			continue
		}

		attrs = append(attrs, a.Name+`="`+strings.ReplaceAll(*a.Value, `"`, "&quot;")+`"`)
	}

	return "<meta " + strings.Join(attrs, " ") + " />"
}

func orNull(s *string) string {
	if s == nil {
		return "null"
	}

	return *s
}
