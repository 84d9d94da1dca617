package grid

import "testing"

func TestSpotlightLayout_LandscapeFour(t *testing.T) {
	cfg := DefaultConfig()
	rects := SpotlightLayout(cfg, 4, 1600, 900)

	if len(rects) != 4 {
		t.Fatalf("len = %d, want 4", len(rects))
	}

	avail := 1600.0 - 3*cfg.Gap
	spot := rects[0]
	if !approx(spot.X, 8) || !approx(spot.Y, 8) {
		t.Errorf("spotlight origin = (%g,%g), want (8,8)", spot.X, spot.Y)
	}
	if !approx(spot.Width, avail*4/5) {
		t.Errorf("spotlight width = %g, want %g", spot.Width, avail*4/5)
	}
	if !approx(spot.Height, 900-2*cfg.Gap) {
		t.Errorf("spotlight height = %g, want %g", spot.Height, 900-2*cfg.Gap)
	}

	side := avail / 5
	for i, r := range rects[1:] {
		if !approx(r.Width, side) || !approx(r.Height, side) {
			t.Errorf("spectator %d = %gx%g, want %gx%g square", i, r.Width, r.Height, side, side)
		}
		if !approx(r.X, spot.Right()+cfg.Gap) {
			t.Errorf("spectator %d x = %g, want %g", i, r.X, spot.Right()+cfg.Gap)
		}
	}
	// Stacked vertically with one gap between.
	if !approx(rects[2].Y, rects[1].Bottom()+cfg.Gap) {
		t.Errorf("spectator stacking broken: %g then %g", rects[1].Bottom(), rects[2].Y)
	}
}

func TestSpotlightLayout_PortraitStripBelow(t *testing.T) {
	cfg := DefaultConfig()
	rects := SpotlightLayout(cfg, 3, 600, 1000)

	spot := rects[0]
	avail := 1000.0 - 3*cfg.Gap
	if !approx(spot.Height, avail*4/5) {
		t.Errorf("spotlight height = %g, want %g", spot.Height, avail*4/5)
	}
	if !approx(spot.Width, 600-2*cfg.Gap) {
		t.Errorf("spotlight width = %g, want %g", spot.Width, 600-2*cfg.Gap)
	}
	for i, r := range rects[1:] {
		if !approx(r.Y, spot.Bottom()+cfg.Gap) {
			t.Errorf("spectator %d y = %g, want below spotlight at %g", i, r.Y, spot.Bottom()+cfg.Gap)
		}
	}
	// Side by side horizontally.
	if !approx(rects[2].X, rects[1].Right()+cfg.Gap) {
		t.Errorf("spectators not in a horizontal line")
	}
}

func TestSpotlightLayout_SingleTileFullViewport(t *testing.T) {
	cfg := DefaultConfig()
	rects := SpotlightLayout(cfg, 1, 1280, 720)

	if len(rects) != 1 {
		t.Fatalf("len = %d, want 1", len(rects))
	}
	r := rects[0]
	if !approx(r.Width, 1280-2*cfg.Gap) || !approx(r.Height, 720-2*cfg.Gap) {
		t.Errorf("single tile = %gx%g, want full viewport minus gaps", r.Width, r.Height)
	}
}

func TestSpotlightLayout_ScrollShiftsSpectatorsOnly(t *testing.T) {
	cfg := DefaultConfig()
	still := spotlightLayout(cfg, 5, 1600, 900, 0)
	moved := spotlightLayout(cfg, 5, 1600, 900, -120)

	if !approx(moved[0].X, still[0].X) || !approx(moved[0].Y, still[0].Y) {
		t.Error("scroll moved the spotlight tile")
	}
	for i := 1; i < 5; i++ {
		if !approx(moved[i].Y, still[i].Y-120) {
			t.Errorf("spectator %d y = %g, want %g", i, moved[i].Y, still[i].Y-120)
		}
	}
}

func TestSpotlightMaxScroll(t *testing.T) {
	cfg := DefaultConfig()

	// Two tiles: a single spectator always fits.
	if got := SpotlightMaxScroll(cfg, 2, 1600, 900); got != 0 {
		t.Errorf("max scroll with one spectator = %g, want 0", got)
	}

	// Many spectators overflow the strip.
	got := SpotlightMaxScroll(cfg, 10, 1600, 900)
	if got <= 0 {
		t.Fatalf("max scroll with nine spectators = %g, want > 0", got)
	}

	// The overflow equals content length minus visible length.
	avail := 1600.0 - 3*cfg.Gap
	side := avail - avail*cfg.SpotlightShare
	content := 9*side + 8*cfg.Gap
	visible := 900.0 - 2*cfg.Gap
	if !approx(got, content-visible) {
		t.Errorf("max scroll = %g, want %g", got, content-visible)
	}
}

func TestSpotlightLayout_Empty(t *testing.T) {
	cfg := DefaultConfig()
	if got := len(SpotlightLayout(cfg, 0, 1280, 720)); got != 0 {
		t.Errorf("len = %d, want 0", got)
	}
}
