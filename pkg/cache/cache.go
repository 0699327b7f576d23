// Package cache provides pluggable byte caching for routing results and
// rendered artifacts.
//
// Backends share one small interface so the pipeline can run against a
// local directory (CLI), Redis (server deployments), or nothing at all
// (tests, --no-cache). Keys are derived from content hashes by a Keyer,
// so identical inputs hit the cache regardless of where they came from.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind. Routing results are pure functions of
// their key, so the TTLs only bound disk/Redis growth.
const (
	// TTLResult is the lifetime of cached routing results.
	TTLResult = 7 * 24 * time.Hour

	// TTLRender is the lifetime of cached rendered artifacts.
	TTLRender = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ResultKeyOpts are the routing parameters that distinguish otherwise
// identical design inputs.
type ResultKeyOpts struct {
	ConfigHash string
	Seed       int64
}

// RenderKeyOpts distinguish rendered artifacts of one routing result.
type RenderKeyOpts struct {
	Format     string
	Width      int
	Labels     bool
	TraceWidth float64
}

// Keyer derives cache keys from content hashes. Implementations must be
// deterministic: the same inputs always produce the same key.
type Keyer interface {
	// ResultKey keys a routing result by the design/catalog input hash
	// and the parameters that influence the search.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// RenderKey keys a rendered artifact by the result hash and format.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ResultKey generates a key for routing result caching.
func (k *DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts.ConfigHash, opts.Seed)
}

// RenderKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return hashKey("render", resultHash, opts.Format, opts.Width, opts.Labels, opts.TraceWidth)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
