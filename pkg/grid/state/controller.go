package state

import (
	"sort"
	"sync"
	"time"

	"github.com/kazin-kharizma/element-call/pkg/errors"
	"github.com/kazin-kharizma/element-call/pkg/grid"
	"github.com/kazin-kharizma/element-call/pkg/observability"
)

// Controller is the single owner of the grid's mutable state. All entry
// points are safe for concurrent use; they serialize through one mutex.
type Controller struct {
	mu sync.Mutex

	cfg   grid.Config
	sched Scheduler
	now   func() time.Time

	tiles []*tile
	rects []grid.Rect // indexed by tile order

	items []Item // last reconciled item list

	width, height float64

	userMode grid.Mode // the mode the user picked
	mode     grid.Mode // effective mode (screenshare forces spotlight)
	lastMode grid.Mode

	pipX, pipY float64
	scroll     float64

	gesture gestureState

	closed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler substitutes the removal-timer scheduler, used by tests to
// control time.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithClock substitutes the gesture-timing clock, used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a grid controller with the given geometry
// configuration. The controller starts empty, in freedom mode, with a
// zero-size viewport; callers typically follow up with SetViewport and
// SetItems.
func NewController(cfg grid.Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:      cfg,
		sched:    wallClockScheduler{},
		now:      time.Now,
		userMode: grid.ModeFreedom,
		mode:     grid.ModeFreedom,
		lastMode: grid.ModeFreedom,
		gesture:  newGestureState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close marks the controller dead. Pending removal timers become no-ops and
// further mutations are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, t := range c.tiles {
		if t.cancelPurge != nil {
			t.cancelPurge()
			t.cancelPurge = nil
		}
	}
}

// SetViewport updates the viewport pixel dimensions and recomputes all
// rectangles. Degenerate dimensions are retained (layout degrades to an
// empty rectangle set) so a transiently collapsed window recovers cleanly.
func (c *Controller) SetViewport(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.width, c.height = width, height
	c.recomputeRects()
}

// SetUserMode records the user's layout-mode choice and re-reconciles. The
// effective mode can still differ: any screen-sharing item forces spotlight
// until the share stops, at which point the user's choice applies again.
func (c *Controller) SetUserMode(mode grid.Mode) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown layout mode %q", mode)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.userMode = mode
	return c.applyItems(c.items)
}

// SetItems reconciles the incoming item list against the current tiles.
// Items must have unique, non-empty keys; a list violating that is rejected
// without touching state.
func (c *Controller) SetItems(items []Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.applyItems(items)
}

// Mode returns the effective layout mode.
func (c *Controller) Mode() grid.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Tiles returns the render-order tile list with rectangles attached.
// Tiles pending removal are included, carrying their last known rectangle,
// until the grace period purges them.
func (c *Controller) Tiles() []TileView {
	c.mu.Lock()
	defer c.mu.Unlock()

	views := make([]TileView, 0, len(c.tiles))
	for _, t := range c.tilesByOrder() {
		views = append(views, TileView{
			Key:            t.key,
			Rect:           c.rects[t.order],
			Item:           t.item,
			Focused:        t.focused,
			Presenter:      t.presenter,
			PendingRemoval: t.pendingRemoval,
			Dragging:       c.gesture.isDragging(t.key),
		})
	}
	return views
}

// Snapshot returns a value copy of the complete grid state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Tiles:  make([]Tile, len(c.tiles)),
		Rects:  make([]grid.Rect, len(c.rects)),
		PiPX:   c.pipX,
		PiPY:   c.pipY,
		Scroll: c.scroll,
		Mode:   c.mode,
		Width:  c.width,
		Height: c.height,
	}
	for i, t := range c.tiles {
		snap.Tiles[i] = t.view()
	}
	copy(snap.Rects, c.rects)
	return snap
}

// Layout exports the current state in the shared serialization format.
func (c *Controller) Layout() grid.Layout {
	views := c.Tiles()

	c.mu.Lock()
	defer c.mu.Unlock()
	l := grid.Layout{
		Mode:   string(c.mode),
		Width:  c.width,
		Height: c.height,
		PiPX:   c.pipX,
		PiPY:   c.pipY,
		Scroll: c.scroll,
		Tiles:  make([]grid.TilePlacement, len(views)),
	}
	for i, v := range views {
		l.Tiles[i] = grid.TilePlacement{
			Key:       v.Key,
			Rect:      v.Rect,
			Focused:   v.Focused,
			Presenter: v.Presenter,
			Local:     v.Item.Local,
			Removing:  v.PendingRemoval,
			Dragging:  v.Dragging,
		}
	}
	return l
}

// Arrangement returns the durable user-chosen state: live tile keys in
// order, the PiP corner and the selected mode.
func (c *Controller) Arrangement() Arrangement {
	c.mu.Lock()
	defer c.mu.Unlock()

	a := Arrangement{PiPX: c.pipX, PiPY: c.pipY, Mode: c.userMode}
	for _, t := range c.tilesByOrder() {
		if !t.pendingRemoval {
			a.Order = append(a.Order, t.key)
		}
	}
	return a
}

// ApplyArrangement restores a previously saved arrangement. Keys in a.Order
// that match live tiles move to the front in the given sequence; tiles not
// mentioned keep their relative order behind them; unknown keys are ignored.
func (c *Controller) ApplyArrangement(a Arrangement) error {
	if a.Mode != "" && !a.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidMode, "unknown layout mode %q", a.Mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}

	rank := make(map[string]int, len(a.Order))
	for i, key := range a.Order {
		rank[key] = i
	}

	sorted := c.tilesByOrder()
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iOK := rank[sorted[i].key]
		rj, jOK := rank[sorted[j].key]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		default:
			return false
		}
	})
	for i, t := range sorted {
		t.order = i
	}

	c.pipX = clamp01(a.PiPX)
	c.pipY = clamp01(a.PiPY)
	if a.Mode != "" {
		c.userMode = a.Mode
	}
	return c.applyItems(c.items)
}

// =============================================================================
// Reconciliation
// =============================================================================

// applyItems runs the reconciliation state machine. Caller holds c.mu.
func (c *Controller) applyItems(items []Item) error {
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := errors.ValidateTileKey(it.Key); err != nil {
			return err
		}
		if _, dup := present[it.Key]; dup {
			return errors.New(errors.ErrCodeDuplicateTileKey, "duplicate item key %q", it.Key)
		}
		present[it.Key] = struct{}{}
	}

	mode := c.effectiveMode(items)
	modeChanged := mode != c.lastMode

	byKey := make(map[string]*tile, len(c.tiles))
	for _, t := range c.tiles {
		byKey[t.key] = t
	}

	var added, removed, retained int

	// Departed tiles linger with pendingRemoval until the grace timer
	// purges them.
	for _, t := range c.tiles {
		if _, ok := present[t.key]; ok || t.pendingRemoval {
			continue
		}
		t.pendingRemoval = true
		t.cancelPurge = c.schedulePurge(t.key)
		removed++
	}

	for _, it := range items {
		t, ok := byKey[it.Key]
		if !ok {
			// New tiles append at the end; they never displace
			// existing order.
			t = &tile{key: it.Key, order: len(c.tiles), item: it}
			if mode == grid.ModeSpotlight {
				t.focused = it.Focused
				t.presenter = it.Presenter
			}
			c.tiles = append(c.tiles, t)
			added++
			continue
		}

		if t.pendingRemoval {
			// Reappeared within the grace window: reuse in place.
			t.pendingRemoval = false
			if t.cancelPurge != nil {
				t.cancelPurge()
				t.cancelPurge = nil
			}
		}
		t.item = it
		if mode == grid.ModeSpotlight {
			t.focused = it.Focused
			t.presenter = it.Presenter
		} else {
			t.presenter = false
			if modeChanged {
				// Mode transitions reset focus.
				t.focused = false
			}
		}
		retained++
	}

	c.items = append(c.items[:0], items...)
	c.mode = mode
	c.lastMode = mode
	c.reorder()
	observability.Grid().OnReconcile(added, removed, retained)
	c.recomputeRects()
	return nil
}

// effectiveMode derives the mode to lay out with: any screen-sharing item
// forces spotlight, otherwise the user's choice stands.
func (c *Controller) effectiveMode(items []Item) grid.Mode {
	for _, it := range items {
		if it.Presenter {
			return grid.ModeSpotlight
		}
	}
	return c.userMode
}

// reorder runs the ordering step: in ascending order, focused tiles precede
// presenter tiles precede all others, ties broken by prior relative order.
// Orders are then renumbered densely from zero. Caller holds c.mu.
func (c *Controller) reorder() {
	sorted := c.tilesByOrder()

	var focused, presenters, rest []*tile
	for _, t := range sorted {
		switch {
		case t.focused:
			focused = append(focused, t)
		case t.presenter:
			presenters = append(presenters, t)
		default:
			rest = append(rest, t)
		}
	}

	i := 0
	for _, group := range [][]*tile{focused, presenters, rest} {
		for _, t := range group {
			t.order = i
			i++
		}
	}

	c.checkOrderInvariant()
}

// checkOrderInvariant verifies the dense-permutation invariant and, if it is
// broken, re-derives the order from storage order rather than failing.
func (c *Controller) checkOrderInvariant() {
	seen := make([]bool, len(c.tiles))
	ok := true
	for _, t := range c.tiles {
		if t.order < 0 || t.order >= len(c.tiles) || seen[t.order] {
			ok = false
			break
		}
		seen[t.order] = true
	}
	if ok {
		return
	}
	for i, t := range c.tiles {
		t.order = i
	}
	observability.Grid().OnOrderRederived(len(c.tiles))
}

// tilesByOrder returns the tiles sorted ascending by order. Caller holds c.mu.
func (c *Controller) tilesByOrder() []*tile {
	sorted := make([]*tile, len(c.tiles))
	copy(sorted, c.tiles)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].order < sorted[j].order })
	return sorted
}

// schedulePurge arms the one-shot removal timer for key. Caller holds c.mu.
func (c *Controller) schedulePurge(key string) func() {
	return c.sched.After(c.cfg.RemovalGrace(), func() { c.purge(key) })
}

// purge physically removes a tile once its grace period expires. The timer
// may fire after teardown or after the key was reintroduced; both are no-ops.
func (c *Controller) purge(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	idx := -1
	for i, t := range c.tiles {
		if t.key == key && t.pendingRemoval {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	c.tiles = append(c.tiles[:idx], c.tiles[idx+1:]...)
	for i, t := range c.tilesByOrder() {
		t.order = i
	}
	observability.Grid().OnTilePurged(key)
	c.recomputeRects()
}

// =============================================================================
// Geometry
// =============================================================================

// presenterTileCount counts live tiles in the primary group: focused tiles
// in freedom mode, presenter tiles in spotlight mode. Caller holds c.mu.
func (c *Controller) presenterTileCount() int {
	n := 0
	for _, t := range c.tiles {
		if t.pendingRemoval {
			continue
		}
		if (c.mode == grid.ModeSpotlight && t.presenter) ||
			(c.mode != grid.ModeSpotlight && t.focused) {
			n++
		}
	}
	return n
}

// recomputeRects re-runs the layout dispatcher over the live tiles and
// refreshes the order-indexed rectangle slice. Tiles pending removal are
// excluded from the computation but keep their last rectangle so exit
// animations have a stable origin. Caller holds c.mu.
func (c *Controller) recomputeRects() {
	sorted := c.tilesByOrder()

	live := 0
	for _, t := range sorted {
		if !t.pendingRemoval {
			live++
		}
	}

	c.clampScroll(live)

	pipX, pipY := c.pipX, c.pipY
	if c.gesture.pipDragging {
		pipX, pipY = c.gesture.pipX, c.gesture.pipY
	}

	fresh := grid.Positions(c.cfg, grid.PositionsInput{
		TileCount:          live,
		PresenterTileCount: c.presenterTileCount(),
		Width:              c.width,
		Height:             c.height,
		PiPX:               pipX,
		PiPY:               pipY,
		Scroll:             c.scroll,
		Mode:               c.mode,
	})

	c.rects = make([]grid.Rect, len(c.tiles))
	rank := 0
	for _, t := range sorted {
		if !t.pendingRemoval && rank < len(fresh) {
			t.lastRect = fresh[rank]
			rank++
		}
		c.rects[t.order] = t.lastRect
	}
}

// clampScroll keeps the spotlight scroll offset within the content bounds
// for the current tile count and viewport. Caller holds c.mu.
func (c *Controller) clampScroll(liveTiles int) {
	max := grid.SpotlightMaxScroll(c.cfg, liveTiles, c.width, c.height)
	if c.scroll < -max {
		c.scroll = -max
	}
	if c.scroll > 0 {
		c.scroll = 0
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
