// Package observability lets a binary observe pipeline and cache events.
//
// The pipeline reports what it does through small hook interfaces so a
// binary can attach counters or traces without the library importing a
// metrics backend. Every hook defaults to a no-op.
//
// # Usage
//
// Install hooks around a run and restore the previous ones afterwards:
//
//	defer observability.Set(observability.Hooks{Sheet: progress})()
//
// Libraries call hooks to emit events:
//
//	observability.Sheet().OnProbe(ctx, path, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Sheet Hooks
// =============================================================================

// SheetHooks receives events from a contact sheet run.
type SheetHooks interface {
	// OnScan reports the number of matching files found in dir.
	OnScan(ctx context.Context, dir string, files int, err error)

	// OnProbe reports the outcome of reading one image's dimensions.
	// A non-nil err means the image is skipped.
	OnProbe(ctx context.Context, path string, err error)

	// OnPlace reports where an image was placed.
	OnPlace(ctx context.Context, path string, page, column int)

	// OnRender reports a finished output format.
	OnRender(ctx context.Context, format string, pages int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSheetHooks is a no-op implementation of SheetHooks.
type NoopSheetHooks struct{}

func (NoopSheetHooks) OnScan(context.Context, string, int, error)                  {}
func (NoopSheetHooks) OnProbe(context.Context, string, error)                      {}
func (NoopSheetHooks) OnPlace(context.Context, string, int, int)                   {}
func (NoopSheetHooks) OnRender(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Cache Tally
// =============================================================================

// CacheTally is a CacheHooks that counts events. It is safe for
// concurrent use.
type CacheTally struct {
	hits, misses, writes atomic.Int64
	bytes                atomic.Int64
}

func (t *CacheTally) OnCacheHit(context.Context, string)  { t.hits.Add(1) }
func (t *CacheTally) OnCacheMiss(context.Context, string) { t.misses.Add(1) }

func (t *CacheTally) OnCacheSet(_ context.Context, _ string, size int) {
	t.writes.Add(1)
	t.bytes.Add(int64(size))
}

// Hits returns the number of cache hits seen.
func (t *CacheTally) Hits() int { return int(t.hits.Load()) }

// Misses returns the number of cache misses seen.
func (t *CacheTally) Misses() int { return int(t.misses.Load()) }

// Written returns the number of entries and bytes stored.
func (t *CacheTally) Written() (entries int, bytes int64) {
	return int(t.writes.Load()), t.bytes.Load()
}

// =============================================================================
// Registry
// =============================================================================

// Hooks bundles the process-wide hooks. Nil fields mean no-op.
type Hooks struct {
	Sheet SheetHooks
	Cache CacheHooks
}

func (h Hooks) withDefaults() *Hooks {
	if h.Sheet == nil {
		h.Sheet = NoopSheetHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	return &h
}

var current atomic.Pointer[Hooks]

func init() { current.Store(Hooks{}.withDefaults()) }

// Set installs h and returns a func that restores the previous hooks,
// suitable for defer.
func Set(h Hooks) (restore func()) {
	prev := current.Swap(h.withDefaults())
	return func() { current.Store(prev) }
}

// Sheet returns the installed sheet hooks.
func Sheet() SheetHooks { return current.Load().Sheet }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// Reset installs no-op hooks.
func Reset() { current.Store(Hooks{}.withDefaults()) }
