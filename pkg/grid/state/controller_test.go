package state

import (
	"testing"
	"time"

	"github.com/kazin-kharizma/element-call/pkg/errors"
	"github.com/kazin-kharizma/element-call/pkg/grid"
)

func newTestController(t *testing.T) (*Controller, *ManualScheduler, *fakeClock) {
	t.Helper()
	sched := NewManualScheduler()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewController(grid.DefaultConfig(), WithScheduler(sched), WithClock(clock.Now))
	c.SetViewport(1280, 720)
	t.Cleanup(c.Close)
	return c, sched, clock
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func items(keys ...string) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		out[i] = Item{Key: k}
	}
	return out
}

func mustSetItems(t *testing.T, c *Controller, its []Item) {
	t.Helper()
	if err := c.SetItems(its); err != nil {
		t.Fatalf("SetItems: %v", err)
	}
}

func orderOf(t *testing.T, c *Controller) []string {
	t.Helper()
	views := c.Tiles()
	keys := make([]string, len(views))
	for i, v := range views {
		keys[i] = v.Key
	}
	return keys
}

func assertOrderInvariant(t *testing.T, c *Controller) {
	t.Helper()
	snap := c.Snapshot()
	seen := make(map[int]bool)
	for _, tile := range snap.Tiles {
		if tile.Order < 0 || tile.Order >= len(snap.Tiles) {
			t.Fatalf("tile %s order %d out of range [0,%d)", tile.Key, tile.Order, len(snap.Tiles))
		}
		if seen[tile.Order] {
			t.Fatalf("duplicate order %d", tile.Order)
		}
		seen[tile.Order] = true
	}
	if len(snap.Rects) != len(snap.Tiles) {
		t.Fatalf("rects length %d != tiles length %d", len(snap.Rects), len(snap.Tiles))
	}
}

func TestSetItems_CreatesTilesInOrder(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	got := orderOf(t, c)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	assertOrderInvariant(t, c)
}

func TestSetItems_NewTilesAppendAtEnd(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b"))
	mustSetItems(t, c, items("c", "a", "b"))

	// New tiles never displace existing order, whatever their position in
	// the incoming list.
	got := orderOf(t, c)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSetItems_DuplicateKeyRejected(t *testing.T) {
	c, _, _ := newTestController(t)
	err := c.SetItems([]Item{{Key: "a"}, {Key: "a"}})
	if !errors.Is(err, errors.ErrCodeDuplicateTileKey) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeDuplicateTileKey)
	}
	if len(c.Tiles()) != 0 {
		t.Error("rejected update must not touch state")
	}
}

func TestSetItems_InvalidKeyRejected(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.SetItems([]Item{{Key: ""}}); !errors.Is(err, errors.ErrCodeInvalidItem) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidItem)
	}
}

func TestRemoval_GracePeriod(t *testing.T) {
	c, sched, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))
	mustSetItems(t, c, items("a", "c"))

	// Immediately after reconciliation the departed tile is still present,
	// flagged for removal.
	views := c.Tiles()
	if len(views) != 3 {
		t.Fatalf("tile count = %d, want 3 (b pending removal)", len(views))
	}
	var b *TileView
	for i := range views {
		if views[i].Key == "b" {
			b = &views[i]
		}
	}
	if b == nil || !b.PendingRemoval {
		t.Fatal("tile b should be pending removal")
	}

	// After the grace period it is purged.
	sched.Advance(grid.DefaultRemovalGrace)
	if got := len(c.Tiles()); got != 2 {
		t.Fatalf("tile count after grace = %d, want 2", got)
	}
	assertOrderInvariant(t, c)
}

func TestRemoval_ReintroducedWithinGraceIsReused(t *testing.T) {
	c, sched, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	wantOrder := orderOf(t, c)

	mustSetItems(t, c, items("a", "c"))
	sched.Advance(100 * time.Millisecond) // within the grace window
	mustSetItems(t, c, items("a", "b", "c"))

	// The timer must never purge the reintroduced tile.
	sched.Advance(10 * grid.DefaultRemovalGrace)

	views := c.Tiles()
	if len(views) != 3 {
		t.Fatalf("tile count = %d, want 3", len(views))
	}
	got := orderOf(t, c)
	for i := range wantOrder {
		if got[i] != wantOrder[i] {
			t.Fatalf("order = %v, want prior order %v restored", got, wantOrder)
		}
	}
	for _, v := range views {
		if v.PendingRemoval {
			t.Errorf("tile %s still pending removal", v.Key)
		}
	}
}

func TestRemoval_PendingTileExcludedFromLayoutCount(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))
	mustSetItems(t, c, items("a", "b"))

	// Three tiles rendered, but the live pair gets the two-tile layout:
	// the one-on-one PiP is 230x155 at this viewport.
	views := c.Tiles()
	if len(views) != 3 {
		t.Fatalf("tile count = %d, want 3", len(views))
	}
	if r := views[0].Rect; r.Width != 230 || r.Height != 155 {
		t.Errorf("tile 0 rect = %gx%g, want the 230x155 PiP", r.Width, r.Height)
	}
}

func TestClose_PendingTimersBecomeNoOps(t *testing.T) {
	sched := NewManualScheduler()
	c := NewController(grid.DefaultConfig(), WithScheduler(sched))
	c.SetViewport(1280, 720)
	mustSetItems(t, c, items("a", "b"))
	mustSetItems(t, c, items("a"))

	c.Close()
	sched.Advance(10 * grid.DefaultRemovalGrace) // must not panic or mutate

	if got := len(c.Snapshot().Tiles); got != 2 {
		t.Errorf("tiles after close = %d, want 2 (frozen)", got)
	}
}

func TestModeForcing_ScreenshareForcesSpotlight(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))
	if c.Mode() != grid.ModeFreedom {
		t.Fatalf("mode = %s, want freedom", c.Mode())
	}

	mustSetItems(t, c, []Item{{Key: "a"}, {Key: "b", Presenter: true}, {Key: "c"}})
	if c.Mode() != grid.ModeSpotlight {
		t.Fatalf("mode = %s, want spotlight forced by screenshare", c.Mode())
	}

	// The presenter tile leads the order in spotlight mode.
	if got := orderOf(t, c); got[0] != "b" {
		t.Errorf("order = %v, want b first", got)
	}

	// Share stops: the user's choice applies again.
	mustSetItems(t, c, items("a", "b", "c"))
	if c.Mode() != grid.ModeFreedom {
		t.Fatalf("mode = %s, want freedom restored", c.Mode())
	}
}

func TestModeTransition_ClearsFocusInFreedom(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	// Focus a tile, then bounce through spotlight and back.
	doubleTap(c, "b")
	if !findTile(t, c, "b").Focused {
		t.Fatal("b should be focused after double tap")
	}

	if err := c.SetUserMode(grid.ModeSpotlight); err != nil {
		t.Fatal(err)
	}
	if err := c.SetUserMode(grid.ModeFreedom); err != nil {
		t.Fatal(err)
	}
	if findTile(t, c, "b").Focused {
		t.Error("mode transition must reset focus")
	}
}

func TestSpotlightMode_FlagsMirrorItems(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.SetUserMode(grid.ModeSpotlight); err != nil {
		t.Fatal(err)
	}
	mustSetItems(t, c, []Item{
		{Key: "a", Focused: true},
		{Key: "b", Presenter: true},
		{Key: "c"},
	})

	if !findTile(t, c, "a").Focused {
		t.Error("a should mirror its focused flag in spotlight mode")
	}
	if !findTile(t, c, "b").Presenter {
		t.Error("b should mirror its presenter flag in spotlight mode")
	}

	// Focused precedes presenter precedes the rest.
	got := orderOf(t, c)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestFreedomMode_SeedsFlagsFalse(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, []Item{{Key: "a", Focused: true, Presenter: false}, {Key: "b"}, {Key: "c"}})

	// Outside spotlight mode, item flags do not seed tile flags.
	if findTile(t, c, "a").Focused {
		t.Error("freedom mode must not seed focus from items")
	}
}

func TestSetUserMode_Invalid(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.SetUserMode("grid"); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInvalidMode)
	}
}

func TestSetViewport_RecomputesRects(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c"))

	before := c.Tiles()[0].Rect
	c.SetViewport(1920, 1080)
	after := c.Tiles()[0].Rect
	if before == after {
		t.Error("viewport change did not move rectangles")
	}
	assertOrderInvariant(t, c)
}

func TestArrangement_RoundTrip(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b", "c", "d"))

	if err := c.ApplyArrangement(Arrangement{
		Order: []string{"c", "a", "zz-unknown", "d", "b"},
		PiPX:  0.25,
		PiPY:  1.5, // clamped
		Mode:  grid.ModeFreedom,
	}); err != nil {
		t.Fatal(err)
	}

	got := orderOf(t, c)
	want := []string{"c", "a", "d", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	a := c.Arrangement()
	if a.PiPX != 0.25 || a.PiPY != 1 {
		t.Errorf("pip = (%g,%g), want (0.25,1)", a.PiPX, a.PiPY)
	}
	if len(a.Order) != 4 {
		t.Errorf("arrangement order length = %d, want 4", len(a.Order))
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, items("a", "b"))

	snap := c.Snapshot()
	snap.Tiles[0].Key = "mutated"
	snap.Rects[0].X = -999

	if c.Tiles()[0].Key == "mutated" {
		t.Error("snapshot shares tile storage with the controller")
	}
	if c.Tiles()[0].Rect.X == -999 {
		t.Error("snapshot shares rect storage with the controller")
	}
}

func TestLayout_Export(t *testing.T) {
	c, _, _ := newTestController(t)
	mustSetItems(t, c, []Item{{Key: "a", Local: true}, {Key: "b"}, {Key: "c"}})

	l := c.Layout()
	if l.Mode != string(grid.ModeFreedom) {
		t.Errorf("mode = %s, want freedom", l.Mode)
	}
	if len(l.Tiles) != 3 {
		t.Fatalf("tiles = %d, want 3", len(l.Tiles))
	}
	if !l.Tiles[0].Local {
		t.Error("local flag lost in export")
	}

	data, err := grid.MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := grid.UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Tiles) != 3 {
		t.Errorf("round-trip tiles = %d, want 3", len(back.Tiles))
	}
}

func findTile(t *testing.T, c *Controller, key string) TileView {
	t.Helper()
	for _, v := range c.Tiles() {
		if v.Key == key {
			return v
		}
	}
	t.Fatalf("tile %s not found", key)
	return TileView{}
}
