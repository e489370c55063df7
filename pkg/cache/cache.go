// Package cache stores rendered artifacts by content key.
//
// All backends implement [Cache]: a byte store with per-entry TTLs. Keys are
// built by a [Keyer] so that callers never assemble key strings by hand.
//
// # Backends
//
//   - [NullCache]: disabled caching
//   - [FileCache]: one file per entry under a local directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [MongoCache]: shared cache backed by a collection with a TTL index
//
// Network backends wrap transient failures with [Retryable]; use
// [RetryWithBackoff] around calls that may hit them.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLStored is how long artifacts stored by the HTTP service stay
	// retrievable by id.
	TTLStored = 24 * time.Hour
)

// Cache is a key-value byte store.
type Cache interface {
	// Get returns the stored bytes and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts are the render options that affect an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	SpecHash  string `json:"spec_hash"`
	Flags     string `json:"flags,omitempty"` // emit toggles such as standalone HTML
	Title     string `json:"title,omitempty"`
	CellWidth int    `json:"cell_width,omitempty"`
	BarChars  int    `json:"bar_chars,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey keys a rendered artifact by input hash and options.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string

	// StoredKey keys an artifact stored under a public id.
	StoredKey(id string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256 of input and options>".
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// StoredKey returns "stored:<id>".
func (DefaultKeyer) StoredKey(id string) string {
	return "stored:" + id
}
