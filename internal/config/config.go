// Package config reads and writes the chronoline TOML configuration file.
//
// Every setting is a pointer so that an absent key can be told apart from a
// zero value: year 0 and a left padding of 0 are both legal. Flags override
// the file, and the file overrides the pipeline defaults.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Layout LayoutConfig `toml:"layout"`
	Filter FilterConfig `toml:"filter"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// LayoutConfig maps layout settings.
type LayoutConfig struct {
	Grouping       *string  `toml:"grouping,omitempty"`
	PixelsPerYear  *float64 `toml:"pixels_per_year,omitempty"`
	LeftPadding    *float64 `toml:"left_padding,omitempty"`
	ViewportHeight *float64 `toml:"viewport_height,omitempty"`
}

// FilterConfig maps the persisted filter selection.
type FilterConfig struct {
	Categories         []string `toml:"categories,omitempty"`
	Countries          []string `toml:"countries,omitempty"`
	Start              *int     `toml:"start,omitempty"`
	End                *int     `toml:"end,omitempty"`
	ShowAchievements   *bool    `toml:"show_achievements,omitempty"`
	HideEmptyCenturies *bool    `toml:"hide_empty_centuries,omitempty"`
}

// RenderConfig maps render settings.
type RenderConfig struct {
	Theme     *string `toml:"theme,omitempty"`
	TextWidth *int    `toml:"text_width,omitempty"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   *string `toml:"backend,omitempty"`
	Dir       *string `toml:"dir,omitempty"`
	RedisAddr *string `toml:"redis_addr,omitempty"`
	TTL       *string `toml:"ttl,omitempty"`
}

// StoreConfig locates the person stores.
type StoreConfig struct {
	SQLite        *string `toml:"sqlite,omitempty"`
	MongoURI      *string `toml:"mongo_uri,omitempty"`
	MongoDatabase *string `toml:"mongo_database,omitempty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func (c FileConfig) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path, creating parent directories.
func (c FileConfig) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the values that can be checked without a dataset.
func (c FileConfig) Validate() error {
	if c.Layout.Grouping != nil {
		if err := pipeline.ValidateGrouping(*c.Layout.Grouping); err != nil {
			return err
		}
	}
	if c.Filter.Start != nil && c.Filter.End != nil {
		if err := apperr.ValidateTimeRange(*c.Filter.Start, *c.Filter.End); err != nil {
			return err
		}
	}
	if c.Cache.Backend != nil {
		switch *c.Cache.Backend {
		case CacheFile, CacheRedis, CacheNone:
		default:
			return apperr.New(apperr.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, redis, none)", *c.Cache.Backend)
		}
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheBackend returns the configured backend, "file" by default.
func (c FileConfig) CacheBackend() string {
	if c.Cache.Backend == nil {
		return CacheFile
	}
	return *c.Cache.Backend
}

// CacheTTL returns the configured entry lifetime, or zero for the per-kind
// defaults.
func (c FileConfig) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == nil || *c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(*c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "invalid cache ttl %q", *c.Cache.TTL)
	}
	return d, nil
}

// CacheDir returns the file cache directory.
func (c FileConfig) CacheDir() string {
	return stringOr(c.Cache.Dir, DefaultCacheDir())
}

// SQLitePath returns the path of the person store.
func (c FileConfig) SQLitePath() string {
	return stringOr(c.Store.SQLite, DefaultDBPath())
}

// MongoURI returns the configured MongoDB URI, or "".
func (c FileConfig) MongoURI() string { return stringOr(c.Store.MongoURI, "") }

// MongoDatabase returns the configured MongoDB database name.
func (c FileConfig) MongoDatabase() string { return stringOr(c.Store.MongoDatabase, appName) }

// RedisAddr returns the configured Redis address.
func (c FileConfig) RedisAddr() string { return stringOr(c.Cache.RedisAddr, "localhost:6379") }

// Apply copies every set value into opts that opts does not already carry.
// Call it after flags were applied and before the pipeline defaults.
func (c FileConfig) Apply(opts *pipeline.Options) {
	if opts.Grouping == "" && c.Layout.Grouping != nil {
		opts.Grouping = *c.Layout.Grouping
	}
	if opts.PixelsPerYear == 0 && c.Layout.PixelsPerYear != nil {
		opts.PixelsPerYear = *c.Layout.PixelsPerYear
	}
	if opts.LeftPadding == nil && c.Layout.LeftPadding != nil {
		v := *c.Layout.LeftPadding
		opts.LeftPadding = &v
	}
	if opts.ViewportHeight == 0 && c.Layout.ViewportHeight != nil {
		opts.ViewportHeight = *c.Layout.ViewportHeight
	}

	if len(opts.Categories) == 0 {
		opts.Categories = c.Filter.Categories
	}
	if len(opts.Countries) == 0 {
		opts.Countries = c.Filter.Countries
	}
	if opts.Start == nil && c.Filter.Start != nil {
		v := *c.Filter.Start
		opts.Start = &v
	}
	if opts.End == nil && c.Filter.End != nil {
		v := *c.Filter.End
		opts.End = &v
	}
	if !opts.ShowAchievements && c.Filter.ShowAchievements != nil {
		opts.ShowAchievements = *c.Filter.ShowAchievements
	}
	if !opts.HideEmptyCenturies && c.Filter.HideEmptyCenturies != nil {
		opts.HideEmptyCenturies = *c.Filter.HideEmptyCenturies
	}

	if opts.Theme == "" && c.Render.Theme != nil {
		opts.Theme = *c.Render.Theme
	}
	if opts.TextWidth == 0 && c.Render.TextWidth != nil {
		opts.TextWidth = *c.Render.TextWidth
	}
}

// Defaults returns a config with every layout, filter and render key set to
// the pipeline default. It seeds `config init`.
func Defaults() FileConfig {
	var opts pipeline.Options
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	backend := CacheFile
	showAchievements, hideEmpty := false, false
	return FileConfig{
		Layout: LayoutConfig{
			Grouping:       &opts.Grouping,
			PixelsPerYear:  &opts.PixelsPerYear,
			LeftPadding:    opts.LeftPadding,
			ViewportHeight: &opts.ViewportHeight,
		},
		Filter: FilterConfig{
			Start:              opts.Start,
			End:                opts.End,
			ShowAchievements:   &showAchievements,
			HideEmptyCenturies: &hideEmpty,
		},
		Render: RenderConfig{
			Theme:     &opts.Theme,
			TextWidth: &opts.TextWidth,
		},
		Cache: CacheConfig{Backend: &backend},
	}
}

func stringOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}
