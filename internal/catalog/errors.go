package catalog

import "errors"

var (
	// ErrUpstreamUnavailable indicates a network or HTTP failure against
	// an external catalog API. Callers render an empty state, never crash.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound indicates an empty result set (no episodes, no search
	// matches). Rendered as an explicit empty state, not an error.
	ErrNotFound = errors.New("not found")
)
