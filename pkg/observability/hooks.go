// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout computation, tile reconciliation, and gesture
// handling.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetGridHooks(&myGridHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(mode, tileCount)
//	// ... compute positions ...
//	observability.Layout().OnLayoutComplete(mode, tileCount, duration)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from geometry computation.
type LayoutHooks interface {
	// OnLayoutStart records the start of a position computation.
	OnLayoutStart(mode string, tileCount int)

	// OnLayoutComplete records a finished position computation.
	OnLayoutComplete(mode string, tileCount int, duration time.Duration)

	// OnFallbackShape records a tile count beyond the explicit breakpoint
	// table, served by the approximate-square fallback grid.
	OnFallbackShape(tileCount int)

	// OnDegenerateViewport records a layout request with impossible
	// viewport dimensions, answered with an empty rectangle set.
	OnDegenerateViewport(width, height float64)
}

// =============================================================================
// Grid Hooks
// =============================================================================

// GridHooks receives events from tile reconciliation.
type GridHooks interface {
	// OnReconcile records a reconciliation pass over the item list.
	OnReconcile(added, removed, retained int)

	// OnTilePurged records the physical removal of a tile after its
	// grace period expired.
	OnTilePurged(key string)

	// OnOrderRederived records a full order re-derivation after a broken
	// permutation was detected.
	OnOrderRederived(tileCount int)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from gesture interpretation.
type GestureHooks interface {
	// OnFocusToggle records a double-tap focus toggle on a tile.
	OnFocusToggle(key string, focused bool)

	// OnDragReorder records a drag-driven order swap between two tiles.
	OnDragReorder(fromKey, toKey string)

	// OnPiPMove records a committed picture-in-picture reposition.
	OnPiPMove(xRatio, yRatio float64)

	// OnScroll records a spotlight scroll offset change.
	OnScroll(offset float64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(string, int)                   {}
func (NoopLayoutHooks) OnLayoutComplete(string, int, time.Duration) {}
func (NoopLayoutHooks) OnFallbackShape(int)                         {}
func (NoopLayoutHooks) OnDegenerateViewport(float64, float64)       {}

// NoopGridHooks is a no-op implementation of GridHooks.
type NoopGridHooks struct{}

func (NoopGridHooks) OnReconcile(int, int, int) {}
func (NoopGridHooks) OnTilePurged(string)       {}
func (NoopGridHooks) OnOrderRederived(int)      {}

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnFocusToggle(string, bool)    {}
func (NoopGestureHooks) OnDragReorder(string, string)  {}
func (NoopGestureHooks) OnPiPMove(float64, float64)    {}
func (NoopGestureHooks) OnScroll(float64)              {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	gridHooks    GridHooks    = NoopGridHooks{}
	gestureHooks GestureHooks = NoopGestureHooks{}
	hooksMu      sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout operations.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetGridHooks registers custom grid hooks.
// This should be called once at application startup before any reconciliation.
func SetGridHooks(h GridHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gridHooks = h
	}
}

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before any gesture handling.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Grid returns the registered grid hooks.
func Grid() GridHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gridHooks
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	gridHooks = NoopGridHooks{}
	gestureHooks = NoopGestureHooks{}
}
