// Package cache stores computed layouts and rendered artifacts between runs.
//
// A [Cache] is a byte store with per-entry expiry. Three backends exist:
//   - [FileCache] for the CLI, one JSON file per entry under a directory
//   - [RedisCache] for the HTTP server, shared between instances
//   - [NullCache] when caching is disabled
//
// Keys are produced by a [Keyer] from content hashes, so a changed dataset or
// option never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLDataset  = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value byte store. Get reports a miss with ok == false and a
// nil error; an error means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	Grouping           string   `json:"grouping"`
	Order              []string `json:"order,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	Countries          []string `json:"countries,omitempty"`
	Start              int      `json:"start"`
	End                int      `json:"end"`
	HideEmptyCenturies bool     `json:"hide_empty,omitempty"`
	ShowAchievements   bool     `json:"achievements,omitempty"`
	PixelsPerYear      float64  `json:"ppy"`
	LeftPadding        float64  `json:"left_padding"`
	ViewportHeight     float64  `json:"viewport_height"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Theme  string `json:"theme,omitempty"`
	Title  string `json:"title,omitempty"`
	NoGrid bool   `json:"no_grid,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DatasetKey identifies a parsed dataset by its source and content hash.
	DatasetKey(source, contentHash string) string
	// LayoutKey identifies a layout of the dataset with the given hash.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendering of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey implements Keyer.
func (DefaultKeyer) DatasetKey(source, contentHash string) string {
	return hashKey("dataset", source, contentHash)
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
