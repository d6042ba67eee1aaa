package config

import "errors"

var (
	ErrNoConfig = errors.New("no config selected")

	ErrNoBaseURL      = errors.New("no base url: set base_url or pass --base-url")
	ErrNoPages        = errors.New("no pages: set pages or pass --page")
	ErrInvalidWorkers = errors.New("invalid workers: must be at least 1")
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")
)
