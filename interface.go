package sitelayout

import "time"

// Advisory optionally nudges candidate placements. Adjust is given a
// candidate anchor and returns a score delta in [-1, 1]; the engine
// clamps anything wilder. Implementations must be deterministic for a
// given input or layouts stop being reproducible.
//
// A nil Advisory on the request means no adjustment.
type Advisory interface {
	Adjust(x, y float64) float64
}

// ResultCache stores finished layouts keyed by request fingerprint.
// Implementations must be safe for concurrent use. The engine ships
// with an in-memory TTL cache; pass your own via WithCache to share
// results across processes.
type ResultCache interface {
	// Get returns the cached result for key, or ok=false.
	Get(key string) (*LayoutResult, bool)

	// Set stores the result under key for at most ttl.
	Set(key string, result *LayoutResult, ttl time.Duration)
}
