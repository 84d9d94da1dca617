package grid

// SpotlightLayout computes tile rectangles for spotlight mode with no scroll
// applied. The spotlight tile is at index 0; the remaining tiles are square
// spectator tiles laid out in a single line.
//
// Orientation follows the viewport aspect ratio: landscape puts the
// spectators in a vertical strip to the right of the spotlight, portrait
// puts them in a horizontal strip below it. The spotlight takes
// cfg.SpotlightShare of the primary axis when spectators exist, otherwise
// the full viewport minus gaps. The spectator line never wraps; overflow is
// handled by scrolling (see [SpotlightMaxScroll]).
func SpotlightLayout(cfg Config, tileCount int, width, height float64) []Rect {
	return spotlightLayout(cfg, tileCount, width, height, 0)
}

func spotlightLayout(cfg Config, tileCount int, width, height, scroll float64) []Rect {
	if tileCount <= 0 || width <= 0 || height <= 0 {
		return []Rect{}
	}

	gap := cfg.Gap
	if tileCount == 1 {
		return Pack(cfg, 1, Shape{Columns: 1, Rows: 1}, width, height, 0, 0)
	}

	rects := make([]Rect, tileCount)
	spectators := tileCount - 1

	if width/height < 1 {
		// Portrait: spotlight on top, spectator strip below.
		avail := height - 3*gap
		spotH := avail * cfg.SpotlightShare
		side := avail - spotH
		rects[0] = Rect{X: gap, Y: gap, Width: width - 2*gap, Height: spotH}
		stripY := 2*gap + spotH
		for i := 0; i < spectators; i++ {
			rects[i+1] = Rect{
				X:      gap + float64(i)*(side+gap) + scroll,
				Y:      stripY,
				Width:  side,
				Height: side,
			}
		}
		return rects
	}

	// Landscape: spotlight on the left, spectator strip to the right.
	avail := width - 3*gap
	spotW := avail * cfg.SpotlightShare
	side := avail - spotW
	rects[0] = Rect{X: gap, Y: gap, Width: spotW, Height: height - 2*gap}
	stripX := 2*gap + spotW
	for i := 0; i < spectators; i++ {
		rects[i+1] = Rect{
			X:      stripX,
			Y:      gap + float64(i)*(side+gap) + scroll,
			Width:  side,
			Height: side,
		}
	}
	return rects
}

// SpotlightMaxScroll returns the magnitude of the largest useful scroll
// offset for the spectator strip: the amount by which the strip's content
// overflows the viewport along its line axis. The valid scroll range is
// [-SpotlightMaxScroll, 0]; zero means everything fits.
func SpotlightMaxScroll(cfg Config, tileCount int, width, height float64) float64 {
	if tileCount <= 1 || width <= 0 || height <= 0 {
		return 0
	}

	gap := cfg.Gap
	primary, secondary := width, height
	if width/height < 1 {
		primary, secondary = height, width
	}

	avail := primary - 3*gap
	side := avail - avail*cfg.SpotlightShare
	spectators := float64(tileCount - 1)

	content := spectators*side + (spectators-1)*gap
	visible := secondary - 2*gap
	if overflow := content - visible; overflow > 0 {
		return overflow
	}
	return 0
}
