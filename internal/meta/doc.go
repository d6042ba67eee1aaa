// Package meta scrapes the head metadata of a live page: its title, every
// meta element with attributes kept in document order, and the favicon URL.
// Scraping never fails; errors are logged and an empty Metadata is returned
// so the page can still be generated.
package meta
