package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragsbruh/notfoundgen/internal/meta"
)

func str(s string) *string { return &s }

func mustTemplate(t *testing.T, text string) *Template {
	t.Helper()

	tmpl, err := NewTemplate(text, DefaultMarker)
	require.NoError(t, err)
	return tmpl
}

func TestRender_AbsentValuesRenderNull(t *testing.T) {
	tmpl := mustTemplate(t, "<head><header-tags /></head>")

	got := tmpl.Render(meta.Metadata{})

	assert.Equal(t, "<head><title>null</title>\n<link rel=\"icon\" href=\"null\" /></head>", got)
}

func TestRender_FullBlock(t *testing.T) {
	tmpl := mustTemplate(t, "A<header-tags />B")

	md := meta.Metadata{
		Title:   str("Tea"),
		Favicon: str("https://example.com/f.ico"),
		MetaTags: []meta.Tag{
			{{Name: "name", Value: str("description")}, {Name: "content", Value: str("cups")}},
			{{Name: "charset", Value: str("utf-8")}},
		},
	}

	want := "A" +
		"<title>Tea</title>\n" +
		`<link rel="icon" href="https://example.com/f.ico" />` + "\n" +
		`<meta name="description" content="cups" />` + "\n" +
		`<meta charset="utf-8" />` +
		"B"

	assert.Equal(t, want, tmpl.Render(md))
}

func TestRenderMeta(t *testing.T) {
	tests := []struct {
		name string
		tag  meta.Tag
		want string
	}{
		{
			name: "attribute order kept",
			tag: meta.Tag{
				{Name: "content", Value: str("c")},
				{Name: "property", Value: str("og:x")},
			},
			want: `<meta content="c" property="og:x" />`,
		},
		{
			name: "valueless attribute omitted",
			tag: meta.Tag{
				{Name: "itemprop"},
				{Name: "content", Value: str("kept")},
			},
			want: `<meta content="kept" />`,
		},
		{
			name: "empty value kept",
			tag: meta.Tag{
				{Name: "name", Value: str("robots")},
				{Name: "content", Value: str("")},
			},
			want: `<meta name="robots" content="" />`,
		},
		{
			name: "only double quotes escaped",
			tag: meta.Tag{
				{Name: "content", Value: str(`say "hi" & <b>'x'</b>`)},
			},
			want: `<meta content="say &quot;hi&quot; & <b>'x'</b>" />`,
		},
		{
			name: "no attributes",
			tag:  meta.Tag{},
			want: `<meta  />`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderMeta(tt.tag))
		})
	}
}

func TestRender_OnlyFirstMarkerReplaced(t *testing.T) {
	// built directly: NewTemplate refuses repeated markers
	tmpl := &Template{text: "<x/>|<x/>", marker: "<x/>"}

	got := tmpl.Render(meta.Metadata{Title: str("t")})

	assert.True(t, strings.HasSuffix(got, "|<x/>"))
	assert.Equal(t, 1, strings.Count(got, "<x/>"))
}

func TestNewTemplate_MarkerValidation(t *testing.T) {
	_, err := NewTemplate("<html></html>", DefaultMarker)
	assert.ErrorIs(t, err, ErrMarkerMissing)

	_, err = NewTemplate("<header-tags /><header-tags />", DefaultMarker)
	assert.ErrorIs(t, err, ErrMarkerRepeated)

	tmpl, err := NewTemplate("{{head}}", "")
	assert.ErrorIs(t, err, ErrMarkerMissing)
	assert.Nil(t, tmpl)

	tmpl, err = NewTemplate("{{head}}", "{{head}}")
	require.NoError(t, err)
	assert.Contains(t, tmpl.Render(meta.Metadata{}), "<title>null</title>")
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "template.html")
	require.NoError(t, os.WriteFile(path, []byte(DefaultTemplate), 0644))

	tmpl, err := LoadTemplate(path, DefaultMarker)
	require.NoError(t, err)
	assert.NotContains(t, tmpl.Render(meta.Metadata{}), DefaultMarker)

	_, err = LoadTemplate(filepath.Join(dir, "missing.html"), DefaultMarker)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
