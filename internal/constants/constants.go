package constants

import "time"

// Pagination bounds for list queries. Values outside these bounds are rejected,
// not clamped.
const (
	MinPage         = 1
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MaxSearchLength caps the search query string.
const MaxSearchLength = 100

// DefaultDebounce is the quiescence delay the directory client waits after a
// filter edit before issuing a list request.
const DefaultDebounce = 500 * time.Millisecond
