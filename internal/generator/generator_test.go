package generator_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dragsbruh/notfoundgen/internal/fetch"
	"github.com/dragsbruh/notfoundgen/internal/generator"
	"github.com/dragsbruh/notfoundgen/internal/meta"
	"github.com/dragsbruh/notfoundgen/internal/output"
	"github.com/dragsbruh/notfoundgen/internal/render"
	"github.com/dragsbruh/notfoundgen/internal/ui"
)

const tmplText = `<!DOCTYPE html><html><head><header-tags /></head><body><h1>Down</h1></body></html>`

func site(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home</title><link rel="icon" href="/favicon.svg"></head></html>`)
	})
	mux.HandleFunc("/tea/dragsbruh/proxii", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
			<title>Proxii</title>
			<meta property="og:title" content="Proxii &quot;beta&quot;">
			<link rel="shortcut icon" href="/f.ico">
		</head></html>`)
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no head</body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newGenerator(t *testing.T, baseURL, root string, opts ...generator.Option) *generator.Generator {
	t.Helper()

	log := ui.NewLoggerWith(zap.NewNop(), false)

	client, err := fetch.NewHTTPClient(fetch.HTTPClientOptions{})
	require.NoError(t, err)

	tmpl, err := render.NewTemplate(tmplText, render.DefaultMarker)
	require.NoError(t, err)

	g, err := generator.New(
		baseURL,
		meta.NewScraper(fetch.NewHTTPFetcher(client, log), log),
		tmpl,
		output.NewWriter(root, output.DefaultFilename),
		log,
		opts...,
	)
	require.NoError(t, err)

	return g
}

// hostless drops the scheme, which the minifier may shorten.
func hostless(u string) string {
	return strings.TrimPrefix(u, "http:")
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestGenerator_Run(t *testing.T) {
	srv := site(t)
	root := t.TempDir()

	g := newGenerator(t, srv.URL+"/", root)
	require.NoError(t, g.Run(context.Background(), []string{"/", "/tea/dragsbruh/proxii", "/bare"}))

	home := readFile(t, filepath.Join(root, "404.html"))
	assert.Contains(t, home, "<title>Home</title>")
	assert.Contains(t, home, hostless(srv.URL)+`/favicon.svg"`)

	proxii := readFile(t, filepath.Join(root, "tea", "dragsbruh", "proxii", "404.html"))
	assert.Contains(t, proxii, "<title>Proxii</title>")
	assert.Contains(t, proxii, hostless(srv.URL)+`/f.ico"`)
	// the minifier picks whichever quote needs fewer escapes
	assert.Contains(t, proxii, `Proxii "beta"`)
	assert.Contains(t, proxii, "<h1>Down</h1>")

	bare := readFile(t, filepath.Join(root, "bare", "404.html"))
	assert.Contains(t, bare, "<title>null</title>")
	assert.Contains(t, bare, `href="null"`)

	assert.EqualValues(t, 3, g.Stats().TotalPages.Load())
	assert.EqualValues(t, 1, g.Stats().EmptyPages.Load())
}

func TestGenerator_RerunIsIdempotent(t *testing.T) {
	srv := site(t)
	root := t.TempDir()
	pages := []string{"/", "/tea/dragsbruh/proxii"}

	require.NoError(t, newGenerator(t, srv.URL, root).Run(context.Background(), pages))
	first := readFile(t, filepath.Join(root, "tea", "dragsbruh", "proxii", "404.html"))

	require.NoError(t, newGenerator(t, srv.URL, root).Run(context.Background(), pages))
	second := readFile(t, filepath.Join(root, "tea", "dragsbruh", "proxii", "404.html"))

	assert.Equal(t, first, second)
}

func TestGenerator_UnreachableHostContinues(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL
	dead.Close()

	root := t.TempDir()
	g := newGenerator(t, base, root)

	require.NoError(t, g.Run(context.Background(), []string{"/portainer", "/tea"}))

	for _, p := range []string{"portainer", "tea"} {
		out := readFile(t, filepath.Join(root, p, "404.html"))
		assert.Contains(t, out, "<title>null</title>")
		assert.Contains(t, out, `href="null"`)
		assert.NotContains(t, out, "<meta")
	}

	assert.EqualValues(t, 2, g.Stats().EmptyPages.Load())
}

type fakeScraper struct {
	mu   sync.Mutex
	seen []string
}

func (s *fakeScraper) Scrape(_ context.Context, target string) meta.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seen = append(s.seen, target)
	return meta.Metadata{}
}

type failingWriter struct {
	failOn string
	wrote  []string
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(page, _ string) (string, int64, error) {
	if page == w.failOn {
		return "", 0, errDiskFull
	}
	w.wrote = append(w.wrote, page)
	return page, 1, nil
}

func TestGenerator_WriteErrorAbortsBatch(t *testing.T) {
	tmpl, err := render.NewTemplate(tmplText, "")
	require.NoError(t, err)

	scr := &fakeScraper{}
	w := &failingWriter{failOn: "/b"}

	g, err := generator.New("https://example.com/", scr, tmpl, w, ui.NewLoggerWith(zap.NewNop(), false))
	require.NoError(t, err)

	err = g.Run(context.Background(), []string{"/a", "/b", "/c"})
	require.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "page /b")

	assert.Equal(t, []string{"/a"}, w.wrote)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, scr.seen)
}

// gatedWriter fails on one page and holds every other write until that
// failure has happened.
type gatedWriter struct {
	failOn string
	failed chan struct{}

	mu    sync.Mutex
	wrote []string
}

func (w *gatedWriter) Write(page, _ string) (string, int64, error) {
	if page == w.failOn {
		close(w.failed)
		return "", 0, errDiskFull
	}

	<-w.failed

	w.mu.Lock()
	defer w.mu.Unlock()
	w.wrote = append(w.wrote, page)

	return page, 1, nil
}

func TestGenerator_WorkersWriteErrorAbortsBatch(t *testing.T) {
	tmpl, err := render.NewTemplate(tmplText, "")
	require.NoError(t, err)

	w := &gatedWriter{failOn: "/b", failed: make(chan struct{})}
	g, err := generator.New("https://example.com/", &fakeScraper{}, tmpl, w,
		ui.NewLoggerWith(zap.NewNop(), false), generator.WithWorkers(3))
	require.NoError(t, err)

	var pages []string
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		pages = append(pages, "/"+p)
	}

	err = g.Run(context.Background(), pages)
	require.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "page /b")

	// only pages already in flight next to /b may finish
	assert.NotContains(t, w.wrote, "/b")
	assert.LessOrEqual(t, len(w.wrote), 2)
	assert.LessOrEqual(t, g.Stats().TotalPages.Load(), int64(2))
}

func TestGenerator_CancelDuringFetchKeepsExistingPage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	root := t.TempDir()
	existing := filepath.Join(root, "tea", "404.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
	require.NoError(t, os.WriteFile(existing, []byte("<title>Good</title>"), 0644))

	g := newGenerator(t, srv.URL, root)

	err := g.Run(ctx, []string{"/tea", "/portainer"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "page /tea")

	assert.Equal(t, "<title>Good</title>", readFile(t, existing))
	assert.NoFileExists(t, filepath.Join(root, "portainer", "404.html"))
	assert.Zero(t, g.Stats().TotalPages.Load())
}

func TestGenerator_Workers(t *testing.T) {
	srv := site(t)
	root := t.TempDir()

	pages := []string{"/", "/tea/dragsbruh/proxii", "/bare", "/portainer"}
	g := newGenerator(t, srv.URL, root, generator.WithWorkers(3))

	require.NoError(t, g.Run(context.Background(), pages))

	for _, p := range pages {
		path, err := output.Path(root, p, output.DefaultFilename)
		require.NoError(t, err)
		assert.FileExists(t, path)
	}
	assert.EqualValues(t, len(pages), g.Stats().TotalPages.Load())
}

func TestGenerator_CancelledContext(t *testing.T) {
	tmpl, err := render.NewTemplate(tmplText, "")
	require.NoError(t, err)

	scr := &fakeScraper{}
	g, err := generator.New("https://example.com/", scr, tmpl, &failingWriter{}, ui.NewLoggerWith(zap.NewNop(), false))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, g.Run(ctx, []string{"/a"}), context.Canceled)
	assert.Empty(t, scr.seen)
}

func TestGenerator_PageURL(t *testing.T) {
	g, err := generator.New("https://waifustation.example/", nil, nil, nil, nil)
	require.NoError(t, err)

	tests := map[string]string{
		"/":                     "https://waifustation.example/",
		"/portainer":            "https://waifustation.example/portainer",
		"/tea/dragsbruh/proxii": "https://waifustation.example/tea/dragsbruh/proxii",
	}

	for page, want := range tests {
		got, err := g.PageURL(page)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = generator.New("/relative", nil, nil, nil, nil)
	assert.Error(t, err)
}
