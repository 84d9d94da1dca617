package grid

import (
	"time"

	"github.com/kazin-kharizma/element-call/pkg/observability"
)

// PositionsInput bundles the parameters of a full position computation.
type PositionsInput struct {
	// TileCount is the number of live tiles to place.
	TileCount int

	// PresenterTileCount is the size of the presenter group in freedom
	// mode. Ignored in spotlight mode.
	PresenterTileCount int

	// Width and Height are the viewport pixel dimensions.
	Width, Height float64

	// PiPX and PiPY are the picture-in-picture relative coordinates in
	// [0,1], used only by the two-tile freedom case.
	PiPX, PiPY float64

	// Scroll is the spotlight spectator-strip offset (≤ 0), used only in
	// spotlight mode.
	Scroll float64

	// Mode selects the layout engine.
	Mode Mode
}

// Positions dispatches to the layout engine selected by in.Mode and returns
// one rectangle per live tile, indexed by tile order.
//
// The function is pure: identical inputs yield identical output. Degenerate
// viewports produce an empty rectangle set rather than an error; layouts are
// total over their documented domain.
func Positions(cfg Config, in PositionsInput) []Rect {
	if in.Width <= 0 || in.Height <= 0 {
		observability.Layout().OnDegenerateViewport(in.Width, in.Height)
		return []Rect{}
	}

	start := time.Now()
	defer func() {
		observability.Layout().OnLayoutComplete(string(in.Mode), in.TileCount, time.Since(start))
	}()
	observability.Layout().OnLayoutStart(string(in.Mode), in.TileCount)

	switch in.Mode {
	case ModeSpotlight:
		return spotlightLayout(cfg, in.TileCount, in.Width, in.Height, in.Scroll)
	default:
		// Freedom is the mode of last resort so an unset Mode still
		// yields a sensible grid.
		if in.TileCount == 2 && in.PresenterTileCount == 0 {
			return OneOnOneLayout(cfg, in.Width, in.Height, in.PiPX, in.PiPY)
		}
		return FreedomLayout(cfg, in.TileCount, in.PresenterTileCount, in.Width, in.Height)
	}
}
