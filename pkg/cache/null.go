package cache

import (
	"context"
	"time"
)

// NullCache stores nothing and misses on every lookup. It backs --no-cache
// and the "none" backend so the pipeline never has to nil-check its cache.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a cache that discards every write.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
