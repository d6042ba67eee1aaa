package generator

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/dragsbruh/notfoundgen/internal/meta"
	"github.com/dragsbruh/notfoundgen/internal/ui"
	"github.com/dragsbruh/notfoundgen/internal/util"

	"golang.org/x/sync/errgroup"
)

type Scraper interface {
	Scrape(ctx context.Context, target string) meta.Metadata
}

type Renderer interface {
	Render(md meta.Metadata) string
}

type PageWriter interface {
	Write(page, doc string) (string, int64, error)
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type Generator struct {
	base     *url.URL
	scraper  Scraper
	tmpl     Renderer
	writer   PageWriter
	log      Logger
	workers  int
	stats    *ui.Stats
	progress *ui.ProgressHandle
}

type Option func(*Generator)

// WithWorkers lets up to n pages run at once. The default of 1 handles
// pages strictly one after another.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

func WithStats(s *ui.Stats) Option {
	return func(g *Generator) {
		g.stats = s
	}
}

func WithProgress(h *ui.ProgressHandle) Option {
	return func(g *Generator) {
		g.progress = h
	}
}

func New(baseURL string, s Scraper, t Renderer, w PageWriter, log Logger, opts ...Option) (*Generator, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}

	g := &Generator{
		base:    base,
		scraper: s,
		tmpl:    t,
		writer:  w,
		log:     log,
		workers: 1,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.stats == nil {
		g.stats = &ui.Stats{}
	}

	return g, nil
}

func (g *Generator) Stats() *ui.Stats {
	return g.stats
}

// PageURL resolves a configured site path against the base URL.
func (g *Generator) PageURL(page string) (string, error) {
	ref, err := url.Parse(page)
	if err != nil {
		return "", err
	}

	return g.base.ResolveReference(ref).String(), nil
}

// Run generates every page. The first page that cannot be written stops
// the run and its error is returned; scrape failures never do. A cancelled
// ctx stops the run without touching the page being fetched.
func (g *Generator) Run(ctx context.Context, pages []string) error {
	g.progress.SetTotal(len(pages))
	defer g.progress.MarkDone()

	if g.workers <= 1 {
		for i, page := range pages {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.Page(ctx, page); err != nil {
				return err
			}
			g.progress.Update(i+1, g.stats.TotalBytes.Load())
		}

		return nil
	}

	var done atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for _, page := range pages {
		page := page
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := g.Page(egCtx, page); err != nil {
				return err
			}
			g.progress.Update(int(done.Add(1)), g.stats.TotalBytes.Load())

			return nil
		})
	}

	return eg.Wait()
}

// Page runs scrape, render and write for a single site path.
func (g *Generator) Page(ctx context.Context, page string) error {
	target, err := g.PageURL(page)
	if err != nil {
		return fmt.Errorf("page %s: %w", page, err)
	}

	g.log.Debugf("Scraping %s", target)
	md := g.scraper.Scrape(ctx, target)
	// a cancelled fetch looks like a failed scrape; keep the existing page
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("page %s: %w", page, err)
	}
	if md.Empty() {
		g.stats.EmptyPages.Add(1)
	}

	path, n, err := g.writer.Write(page, g.tmpl.Render(md))
	if err != nil {
		return fmt.Errorf("page %s: %w", page, err)
	}

	g.stats.TotalPages.Add(1)
	g.stats.TotalBytes.Add(n)
	g.log.Infof("Wrote %s (%s)", path, util.Human(n))

	return nil
}
