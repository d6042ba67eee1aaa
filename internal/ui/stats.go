package ui

import "sync/atomic"

type Stats struct {
	TotalPages atomic.Int64
	// pages written without any scraped metadata
	EmptyPages atomic.Int64
	TotalBytes atomic.Int64
}
