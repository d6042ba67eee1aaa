package meta

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// iconRels is checked in order; the first keyword with a usable link wins.
var iconRels = []string{"icon", "shortcut icon", "apple-touch-icon"}

type Fetcher interface {
	Fetch(ctx context.Context, target string) ([]byte, error)
}

type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Scraper struct {
	fetcher Fetcher
	log     Logger
}

func NewScraper(f Fetcher, log Logger) *Scraper {
	return &Scraper{
		fetcher: f,
		log:     log,
	}
}

// Scrape fetches target and extracts its metadata. Any failure is logged
// and yields an empty Metadata.
func (s *Scraper) Scrape(ctx context.Context, target string) Metadata {
	md, err := s.scrape(ctx, target)
	if err != nil {
		s.log.Errorf("Error scraping %s: %v", target, err)
		return Metadata{}
	}

	s.log.Debugf("Scraped %s: %d meta tags, favicon=%t", target, len(md.MetaTags), md.Favicon != nil)

	return md
}

func (s *Scraper) scrape(ctx context.Context, target string) (Metadata, error) {
	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return Metadata{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Metadata{}, fmt.Errorf("parse: %w", err)
	}

	return Extract(doc, target)
}

// Extract reads title, meta tags and favicon from an already parsed page.
// pageURL is the address the page was requested from; relative favicon
// links are resolved against it.
func Extract(doc *goquery.Document, pageURL string) (Metadata, error) {
	var md Metadata

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		md.Title = &title
	}

	md.MetaTags = make([]Tag, 0)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		md.MetaTags = append(md.MetaTags, tagFromNode(sel.Get(0)))
	})

	favicon, err := findFavicon(doc, pageURL)
	if err != nil {
		return Metadata{}, err
	}
	md.Favicon = favicon

	return md, nil
}

func tagFromNode(n *html.Node) Tag {
	tag := make(Tag, 0, len(n.Attr))
	seen := make(map[string]bool, len(n.Attr))

	for _, a := range n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		// <meta itemscope> and <meta itemscope=""> both carry "", which is
		// rendered; only a nil Value drops the attribute
		v := a.Val
		tag = append(tag, Attr{Name: name, Value: &v})
	}

	return tag
}

func findFavicon(doc *goquery.Document, pageURL string) (*string, error) {
	links := doc.Find("link[rel]")

	for _, rel := range iconRels {
		want := strings.Fields(rel)

		var href string
		links.EachWithBreak(func(_ int, link *goquery.Selection) bool {
			r, _ := link.Attr("rel")
			if !hasTokens(r, want) {
				return true
			}

			h, _ := link.Attr("href")
			h = strings.TrimSpace(h)
			if h == "" {
				return true
			}

			href = h
			return false
		})

		if href == "" {
			continue
		}

		abs, err := resolveURL(pageURL, href)
		if err != nil {
			return nil, fmt.Errorf("favicon %q: %w", href, err)
		}

		return &abs, nil
	}

	return nil, nil
}

// hasTokens reports whether every token in want appears in the
// space-separated list rel, ignoring case.
func hasTokens(rel string, want []string) bool {
	have := map[string]bool{}
	for _, t := range strings.Fields(rel) {
		have[strings.ToLower(t)] = true
	}

	for _, t := range want {
		if !have[strings.ToLower(t)] {
			return false
		}
	}

	return len(want) > 0
}

func resolveURL(baseURL, href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	b, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	return b.ResolveReference(u).String(), nil
}
