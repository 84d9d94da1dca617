package state

import (
	"testing"
	"time"

	"github.com/kazin-kharizma/element-call/pkg/grid"
)

// tapAt sends a zero-movement down/up pair at the given point.
func tapAt(c *Controller, x, y float64) {
	c.Pointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerUp, X: x, Y: y, Primary: true})
}

// doubleTap sends two taps on the center of the tile with the given key.
func doubleTap(c *Controller, key string) {
	for i := 0; i < 2; i++ {
		for _, v := range c.Tiles() {
			if v.Key == key {
				tapAt(c, v.Rect.X+v.Rect.Width/2, v.Rect.Y+v.Rect.Height/2)
				break
			}
		}
	}
}

func center(v TileView) (float64, float64) {
	return v.Rect.X + v.Rect.Width/2, v.Rect.Y + v.Rect.Height/2
}

func TestDoubleTap_TogglesFocusAndLeadsOrder(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	doubleTap(c, "c")

	v := findTile(t, c, "c")
	if !v.Focused {
		t.Fatal("c should be focused after double tap")
	}
	if got := orderOf(t, c); got[0] != "c" {
		t.Errorf("order = %v, want focused tile first", got)
	}
	assertOrderInvariant(t, c)

	// A second double tap clears focus again.
	doubleTap(c, "c")
	if findTile(t, c, "c").Focused {
		t.Error("second double tap should clear focus")
	}
}

func TestSingleTap_IsRecordedButIgnored(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	x, y := center(findTile(t, c, "b"))
	tapAt(c, x, y)

	if findTile(t, c, "b").Focused {
		t.Error("single tap must not focus")
	}
}

func TestDoubleTap_WindowExpires(t *testing.T) {
	c, _, clock := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	x, y := center(findTile(t, c, "b"))
	tapAt(c, x, y)
	clock.Advance(grid.DefaultDoubleTapWindow + time.Millisecond)
	tapAt(c, x, y)

	if findTile(t, c, "b").Focused {
		t.Error("taps outside the window must not count as a double tap")
	}
}

func TestTap_NoEffectInSpotlight(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.SetUserMode(grid.ModeSpotlight); err != nil {
		t.Fatal(err)
	}
	mustSetItems(t, c, items("a", "b", "c"))

	doubleTap(c, "b")
	if findTile(t, c, "b").Focused {
		t.Error("taps must have no effect in spotlight mode")
	}
}

func TestTap_NoEffectAfterMovement(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	v := findTile(t, c, "b")
	x, y := center(v)
	for i := 0; i < 2; i++ {
		c.Pointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Primary: true})
		c.Pointer(PointerEvent{Kind: PointerMove, X: x + 3, Y: y, DX: 3, Primary: true})
		c.Pointer(PointerEvent{Kind: PointerUp, X: x + 3, Y: y, Primary: true})
	}

	if findTile(t, c, "b").Focused {
		t.Error("drags with nonzero movement must not count as taps")
	}
}

func TestDrag_ReordersTiles(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c", "d"))

	// Drag a onto d's slot.
	ax, ay := center(findTile(t, c, "a"))
	dx, dy := center(findTile(t, c, "d"))
	c.Pointer(PointerEvent{Kind: PointerDown, X: ax, Y: ay, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerMove, X: dx, Y: dy, DX: dx - ax, DY: dy - ay, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerUp, X: dx, Y: dy, Primary: true})

	got := orderOf(t, c)
	want := []string{"b", "c", "d", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	assertOrderInvariant(t, c)
}

func TestDrag_SwapsFocusWithTarget(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))
	doubleTap(c, "a") // a focused, leads the order

	// Drag the unfocused b onto a.
	bx, by := center(findTile(t, c, "b"))
	ax, ay := center(findTile(t, c, "a"))
	c.Pointer(PointerEvent{Kind: PointerDown, X: bx, Y: by, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerMove, X: ax, Y: ay, DX: ax - bx, DY: ay - by, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerUp, X: ax, Y: ay, Primary: true})

	if !findTile(t, c, "b").Focused {
		t.Error("focus should follow the visual slot onto b")
	}
	if findTile(t, c, "a").Focused {
		t.Error("a should have given up focus")
	}
}

func TestDrag_NoOpInSpotlight(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.SetUserMode(grid.ModeSpotlight); err != nil {
		t.Fatal(err)
	}
	mustSetItems(t, c, items("a", "b", "c"))
	before := orderOf(t, c)

	ax, ay := center(findTile(t, c, "a"))
	cx, cy := center(findTile(t, c, "c"))
	c.Pointer(PointerEvent{Kind: PointerDown, X: ax, Y: ay, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerMove, X: cx, Y: cy, DX: cx - ax, DY: cy - ay, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerUp, X: cx, Y: cy, Primary: true})

	after := orderOf(t, c)
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("order changed in spotlight: %v -> %v", before, after)
		}
	}
}

func TestPiPDrag_CommitsOnRelease(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("me", "you"))

	pip := c.Tiles()[0]
	if pip.Rect.Width != 230 {
		t.Fatalf("expected one-on-one PiP, got %+v", pip.Rect)
	}
	x, y := center(pip)

	c.Pointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerMove, X: x + 100, Y: y + 50, DX: 100, DY: 50, Primary: true})

	// Not committed while the drag is in flight.
	if a := c.Arrangement(); a.PiPX != 0 || a.PiPY != 0 {
		t.Errorf("pip committed mid-drag: (%g,%g)", a.PiPX, a.PiPY)
	}
	// But the provisional rect already moved.
	if c.Tiles()[0].Rect.X <= pip.Rect.X {
		t.Error("pip rect did not follow the drag")
	}

	c.Pointer(PointerEvent{Kind: PointerUp, X: x + 100, Y: y + 50, Primary: true})
	a := c.Arrangement()
	if a.PiPX <= 0 || a.PiPY <= 0 {
		t.Errorf("pip not committed on release: (%g,%g)", a.PiPX, a.PiPY)
	}
}

func TestPiPDrag_RatiosClamped(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("me", "you"))

	pip := c.Tiles()[0]
	x, y := center(pip)
	c.Pointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Primary: true})
	// Yank the PiP far past the viewport edge.
	c.Pointer(PointerEvent{Kind: PointerMove, X: x + 1e6, Y: y + 1e6, DX: 1e6, DY: 1e6, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerUp, X: x + 1e6, Y: y + 1e6, Primary: true})

	a := c.Arrangement()
	if a.PiPX != 1 || a.PiPY != 1 {
		t.Errorf("pip ratios = (%g,%g), want clamped to (1,1)", a.PiPX, a.PiPY)
	}

	// And the other way.
	pip = c.Tiles()[0]
	x, y = center(pip)
	c.Pointer(PointerEvent{Kind: PointerDown, X: x, Y: y, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerMove, X: x - 1e6, Y: y - 1e6, DX: -1e6, DY: -1e6, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerUp, X: x - 1e6, Y: y - 1e6, Primary: true})

	a = c.Arrangement()
	if a.PiPX != 0 || a.PiPY != 0 {
		t.Errorf("pip ratios = (%g,%g), want clamped to (0,0)", a.PiPX, a.PiPY)
	}
}

func TestPiPPosition_SurvivesResize(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("me", "you"))

	// Park the PiP at the bottom-right corner, then resize.
	if err := c.ApplyArrangement(Arrangement{Order: []string{"me", "you"}, PiPX: 1, PiPY: 1}); err != nil {
		t.Fatal(err)
	}
	c.SetViewport(1920, 1080)

	views := c.Tiles()
	pip, remote := views[0].Rect, views[1].Rect
	if pip.Right() != remote.Right()-24 || pip.Bottom() != remote.Bottom()-24 {
		t.Errorf("pip at (%g,%g), want pinned to the bottom-right inset", pip.Right(), pip.Bottom())
	}
}

func TestWheel_ScrollsSpotlightWithinBounds(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.SetUserMode(grid.ModeSpotlight); err != nil {
		t.Fatal(err)
	}
	mustSetItems(t, c, items("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))
	c.SetViewport(1600, 900)

	firstBefore := findTile(t, c, "b").Rect.Y

	c.Pointer(PointerEvent{Kind: PointerWheel, DY: -100})
	if got := findTile(t, c, "b").Rect.Y; got != firstBefore-100 {
		t.Errorf("spectator y = %g, want %g", got, firstBefore-100)
	}

	// Scrolling is clamped: far past the content end...
	c.Pointer(PointerEvent{Kind: PointerWheel, DY: -1e6})
	max := grid.SpotlightMaxScroll(grid.DefaultConfig(), 10, 1600, 900)
	if got := c.Snapshot().Scroll; got != -max {
		t.Errorf("scroll = %g, want clamped to %g", got, -max)
	}

	// ...and back past the start.
	c.Pointer(PointerEvent{Kind: PointerWheel, DY: 1e6})
	if got := c.Snapshot().Scroll; got != 0 {
		t.Errorf("scroll = %g, want clamped to 0", got)
	}
}

func TestWheel_NoOpInFreedom(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	c.Pointer(PointerEvent{Kind: PointerWheel, DY: -50})
	if got := c.Snapshot().Scroll; got != 0 {
		t.Errorf("scroll = %g, want 0 in freedom mode", got)
	}
}

func TestDrag_MarksTileDragging(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	ax, ay := center(findTile(t, c, "a"))
	c.Pointer(PointerEvent{Kind: PointerDown, X: ax, Y: ay, Primary: true})
	c.Pointer(PointerEvent{Kind: PointerMove, X: ax + 5, Y: ay, DX: 5, Primary: true})

	if !findTile(t, c, "a").Dragging {
		t.Error("dragged tile not flagged as dragging")
	}
	c.Pointer(PointerEvent{Kind: PointerUp, X: ax + 5, Y: ay, Primary: true})
	if findTile(t, c, "a").Dragging {
		t.Error("dragging flag must clear on release")
	}
}
