package state

import (
	"time"

	"github.com/kazin-kharizma/element-call/pkg/grid"
	"github.com/kazin-kharizma/element-call/pkg/observability"
)

// PointerKind classifies a pointer event.
type PointerKind int

// Pointer event kinds.
const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerWheel
)

// PointerEvent is one pointer or wheel event in viewport pixel coordinates.
type PointerEvent struct {
	Kind PointerKind

	// X, Y is the pointer position.
	X, Y float64

	// DX, DY is the movement delta since the previous event. For wheel
	// events it is the scroll delta.
	DX, DY float64

	// Primary distinguishes primary-button drags from other interactions.
	Primary bool
}

// gestureState is the tap/drag interpretation state machine.
type gestureState struct {
	// activeKey is the tile under the most recent pointer-down.
	activeKey string
	downTime  time.Time
	moved     bool

	// Provisional PiP ratios while a PiP drag is in flight; committed to
	// the controller on release.
	pipDragging bool
	pipX, pipY  float64

	// lastTap maps tile keys to their most recent completed tap, for
	// double-tap detection.
	lastTap map[string]time.Time
}

func newGestureState() gestureState {
	return gestureState{lastTap: make(map[string]time.Time)}
}

func (g *gestureState) isDragging(key string) bool {
	return g.moved && g.activeKey == key
}

func (g *gestureState) reset() {
	g.activeKey = ""
	g.moved = false
	g.pipDragging = false
}

// Pointer feeds one pointer event into the gesture interpreter. Taps and
// drags mutate tile order, focus, PiP position or spotlight scroll, and
// trigger a rectangle recomputation where needed.
func (c *Controller) Pointer(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch ev.Kind {
	case PointerDown:
		c.pointerDown(ev)
	case PointerMove:
		c.pointerMove(ev)
	case PointerUp:
		c.pointerUp(ev)
	case PointerWheel:
		c.wheel(ev)
	}
}

func (c *Controller) pointerDown(ev PointerEvent) {
	c.gesture.reset()
	if t := c.hitTest(ev.X, ev.Y); t != nil {
		c.gesture.activeKey = t.key
		c.gesture.downTime = c.now()
	}
}

func (c *Controller) pointerMove(ev PointerEvent) {
	g := &c.gesture
	if g.activeKey == "" || !ev.Primary {
		return
	}
	if ev.DX != 0 || ev.DY != 0 {
		g.moved = true
	}
	if !g.moved || c.mode != grid.ModeFreedom {
		// Dragging only rearranges freedom layouts.
		return
	}

	if c.isPiPTile(g.activeKey) {
		c.dragPiP(ev)
		return
	}
	c.dragOver(ev)
}

func (c *Controller) pointerUp(ev PointerEvent) {
	g := &c.gesture
	defer g.reset()

	if g.activeKey == "" {
		return
	}

	if g.pipDragging {
		// Commit the provisional PiP position.
		c.pipX, c.pipY = g.pipX, g.pipY
		observability.Gesture().OnPiPMove(c.pipX, c.pipY)
		c.recomputeRects()
		return
	}

	// Taps require zero movement and a prompt release.
	if g.moved || c.now().Sub(g.downTime) > c.cfg.DoubleTapWindow() {
		return
	}
	c.tap(g.activeKey)
}

// tap records a tap on a tile and toggles focus on the second tap within
// the double-tap window. Single taps are recorded and otherwise ignored,
// and taps have no effect in spotlight mode.
func (c *Controller) tap(key string) {
	now := c.now()
	last, tapped := c.gesture.lastTap[key]
	if !tapped || now.Sub(last) > c.cfg.DoubleTapWindow() {
		c.gesture.lastTap[key] = now
		return
	}
	delete(c.gesture.lastTap, key)

	if c.mode != grid.ModeFreedom {
		return
	}
	for _, t := range c.tiles {
		if t.key != key || t.pendingRemoval {
			continue
		}
		t.focused = !t.focused
		observability.Gesture().OnFocusToggle(key, t.focused)
		c.reorder()
		c.recomputeRects()
		return
	}
}

// dragOver reorders tiles while a drag hovers over another tile: the dragged
// tile takes the hover target's slot, tiles between them shift one step
// toward the vacated slot, and the two tiles trade focus flags so focus
// stays with the visual slot.
func (c *Controller) dragOver(ev PointerEvent) {
	dragged := c.tileByKey(c.gesture.activeKey)
	target := c.hitTest(ev.X, ev.Y)
	if dragged == nil || target == nil || target == dragged || target.pendingRemoval {
		return
	}

	from, to := dragged.order, target.order
	for _, t := range c.tiles {
		switch {
		case t == dragged:
			t.order = to
		case from < to && t.order > from && t.order <= to:
			t.order--
		case from > to && t.order >= to && t.order < from:
			t.order++
		}
	}
	dragged.focused, target.focused = target.focused, dragged.focused

	observability.Gesture().OnDragReorder(dragged.key, target.key)
	c.reorder()
	c.recomputeRects()
}

// dragPiP maps drag movement into the PiP's valid position range, keeping a
// provisional ratio that is only committed on release.
func (c *Controller) dragPiP(ev PointerEvent) {
	g := &c.gesture
	if !g.pipDragging {
		g.pipDragging = true
		g.pipX, g.pipY = c.pipX, c.pipY
	}

	spanX, spanY := c.pipRange()
	if spanX > 0 {
		g.pipX = clamp01(g.pipX + ev.DX/spanX)
	}
	if spanY > 0 {
		g.pipY = clamp01(g.pipY + ev.DY/spanY)
	}
	c.recomputeRects()
}

// pipRange returns the pixel span the PiP can travel on each axis.
func (c *Controller) pipRange() (float64, float64) {
	cfg := c.cfg
	pipW, pipH, inset := cfg.PiPLandscapeWidth, cfg.PiPLandscapeHeight, cfg.PiPLandscapeGap
	if c.height > 0 && c.width/c.height < 1 {
		pipW, pipH, inset = cfg.PiPPortraitWidth, cfg.PiPPortraitHeight, cfg.PiPPortraitGap
	}
	spanX := (c.width - 2*cfg.Gap) - 2*inset - pipW
	spanY := (c.height - 2*cfg.Gap) - 2*inset - pipH
	return spanX, spanY
}

// wheel scrolls the spotlight spectator strip along its line axis:
// horizontal in portrait viewports, vertical otherwise.
func (c *Controller) wheel(ev PointerEvent) {
	if c.mode != grid.ModeSpotlight {
		return
	}

	delta := ev.DY
	if c.height > 0 && c.width/c.height < 1 {
		delta = ev.DX
	}
	if delta == 0 {
		return
	}

	live := 0
	for _, t := range c.tiles {
		if !t.pendingRemoval {
			live++
		}
	}

	c.scroll += delta
	c.clampScroll(live)
	observability.Gesture().OnScroll(c.scroll)
	c.recomputeRects()
}

// =============================================================================
// Hit Testing
// =============================================================================

// hitTest returns the topmost live tile containing the point, or nil.
// Caller holds c.mu.
func (c *Controller) hitTest(x, y float64) *tile {
	var best *tile
	for _, t := range c.tiles {
		if t.pendingRemoval || t.order >= len(c.rects) {
			continue
		}
		r := c.rects[t.order]
		if !r.Contains(x, y) {
			continue
		}
		if best == nil || r.ZIndex > c.rects[best.order].ZIndex {
			best = t
		}
	}
	return best
}

func (c *Controller) tileByKey(key string) *tile {
	for _, t := range c.tiles {
		if t.key == key {
			return t
		}
	}
	return nil
}

// isPiPTile reports whether key is the floating PiP tile of the two-tile
// freedom layout. Caller holds c.mu.
func (c *Controller) isPiPTile(key string) bool {
	live := 0
	for _, t := range c.tiles {
		if !t.pendingRemoval {
			live++
		}
	}
	if live != 2 || c.mode != grid.ModeFreedom || c.presenterTileCount() != 0 {
		return false
	}
	t := c.tileByKey(key)
	return t != nil && t.order == 0 && !t.pendingRemoval
}
