// Package observability lets the pipeline, the cache and the HTTP API report
// what they do without depending on a logging or metrics backend.
//
// Instrumented code fetches the current hooks on every event; main installs
// real ones once at startup. Until then every hook is a no-op.
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
//	start := time.Now()
//	observability.Pipeline().OnLayoutStart(ctx, "category", len(persons))
//	l := timeline.Build(persons, opts)
//	observability.Pipeline().OnLayoutComplete(ctx, "category", len(l.Rows), time.Since(start), nil)
package observability

import (
	"context"
	"time"
)

// PipelineHooks observes the load, layout and render stages.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, persons int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, grouping string, persons int)
	OnLayoutComplete(ctx context.Context, grouping string, rows int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes pipeline cache traffic. keyType is the stage the
// entry belongs to: "dataset", "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes API requests. route is the matched pattern, such as
// "/api/persons/{id}", never the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every event. Embed it to observe a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                 {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
