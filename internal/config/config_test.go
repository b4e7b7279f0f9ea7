package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Layout.Grouping != nil {
		t.Error("missing file should yield an empty config")
	}
	if _, err := LoadConfig(""); err == nil {
		t.Error("empty path should fail")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[layout]
grouping = "country"
left_padding = 0.0

[filter]
categories = ["Science", "Art"]
start = 0
end = 1500
hide_empty_centuries = true

[cache]
backend = "redis"
redis_addr = "redis://cache:6379/2"
ttl = "1h"

[store]
mongo_uri = "mongodb://localhost:27017"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := *cfg.Layout.Grouping; got != "country" {
		t.Errorf("grouping = %q", got)
	}
	if *cfg.Filter.Start != 0 || *cfg.Filter.End != 1500 {
		t.Errorf("range = [%d, %d]", *cfg.Filter.Start, *cfg.Filter.End)
	}
	if cfg.CacheBackend() != CacheRedis || cfg.RedisAddr() != "redis://cache:6379/2" {
		t.Errorf("cache = %s %s", cfg.CacheBackend(), cfg.RedisAddr())
	}
	if ttl, _ := cfg.CacheTTL(); ttl != time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
	if cfg.MongoDatabase() != "chronoline" {
		t.Errorf("mongo database default = %q", cfg.MongoDatabase())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apperr.Code
	}{
		{"syntax", "[layout\n", apperr.ErrCodeInvalidInput},
		{"grouping", "[layout]\ngrouping = \"era\"\n", apperr.ErrCodeInvalidGrouping},
		{"range", "[filter]\nstart = 100\nend = 0\n", apperr.ErrCodeInvalidRange},
		{"backend", "[cache]\nbackend = \"memcached\"\n", apperr.ErrCodeInvalidInput},
		{"ttl", "[cache]\nttl = \"soon\"\n", apperr.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if !apperr.Is(err, tt.code) {
				t.Errorf("LoadConfig() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestApply_FlagsWin(t *testing.T) {
	grouping, theme := "country", "dark"
	start, end := -500, 500
	hide := true
	cfg := FileConfig{
		Layout: LayoutConfig{Grouping: &grouping},
		Filter: FilterConfig{Start: &start, End: &end, HideEmptyCenturies: &hide, Countries: []string{"Rome"}},
		Render: RenderConfig{Theme: &theme},
	}

	flagStart := 0
	opts := pipeline.Options{Grouping: "none", Start: &flagStart}
	cfg.Apply(&opts)

	if opts.Grouping != "none" {
		t.Errorf("flag grouping overridden: %q", opts.Grouping)
	}
	if *opts.Start != 0 {
		t.Errorf("flag start overridden: %d", *opts.Start)
	}
	if *opts.End != 500 {
		t.Errorf("config end not applied: %v", opts.End)
	}
	if !opts.HideEmptyCenturies || opts.Theme != "dark" {
		t.Errorf("config values not applied: %+v", opts)
	}
	if len(opts.Countries) != 1 || opts.Countries[0] != "Rome" {
		t.Errorf("countries = %v", opts.Countries)
	}

	// The config pointers must not alias the options.
	*opts.End = 0
	if end != 500 {
		t.Error("Apply must copy pointer values")
	}
}

func TestDefaults_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := Defaults().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[layout]", `grouping = "category"`, "start = -800", `backend = "file"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("saved config missing %q:\n%s", want, data)
		}
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *cfg.Layout.LeftPadding != 50 || *cfg.Render.TextWidth != pipeline.DefaultTextWidth {
		t.Errorf("round trip lost values: %+v", cfg)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "chronoline", "config.toml") {
		t.Errorf("DefaultConfigPath() = %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "chronoline", "persons.db") {
		t.Errorf("DefaultDBPath() = %s", got)
	}
	if got := (FileConfig{}).CacheDir(); got != filepath.Join("/tmp/cache", "chronoline") {
		t.Errorf("CacheDir() = %s", got)
	}
}
