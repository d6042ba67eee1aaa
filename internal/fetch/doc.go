// Package fetch provides the page fetchers used by the scraper: a plain
// HTTP client and a headless browser for client-rendered sites.
package fetch
