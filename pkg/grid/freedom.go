package grid

// itemGridRatio is the share of the viewport's primary axis given to the
// non-presenter sub-grid whenever a presenter sub-grid exists. The reference
// design keeps this fixed at one third regardless of orientation.
const itemGridRatio = 1.0 / 3.0

// FreedomLayout computes tile rectangles for freedom mode.
//
// The first presenterTileCount tiles form the presenter sub-grid; the
// remainder form the item sub-grid. With no presenters the items get the
// whole viewport. With presenters, the item sub-grid is squeezed to one third
// of the primary axis: below the presenters in portrait, to their right in
// landscape. Each sub-grid is shaped by [ShapeFor] and packed by [Pack], and
// presenter rectangles precede item rectangles in the result.
//
// Exactly two tiles with no presenter short-circuit into [OneOnOneLayout]
// with the picture-in-picture tile parked at the top-left corner.
func FreedomLayout(cfg Config, tileCount, presenterTileCount int, width, height float64) []Rect {
	if tileCount <= 0 || width <= 0 || height <= 0 {
		return []Rect{}
	}
	if tileCount == 2 && presenterTileCount == 0 {
		return OneOnOneLayout(cfg, width, height, 0, 0)
	}
	if presenterTileCount < 0 {
		presenterTileCount = 0
	}
	if presenterTileCount > tileCount {
		presenterTileCount = tileCount
	}

	itemCount := tileCount - presenterTileCount
	if presenterTileCount == 0 {
		return Pack(cfg, itemCount, ShapeFor(itemCount, width, height), width, height, 0, 0)
	}
	if itemCount == 0 {
		return Pack(cfg, presenterTileCount, ShapeFor(presenterTileCount, width, height), width, height, 0, 0)
	}

	var presenterBox, itemBox Rect
	if width/height < 1 {
		// Portrait: presenters on top, items below.
		presenterBox = Rect{X: 0, Y: 0, Width: width, Height: height * (1 - itemGridRatio)}
		itemBox = Rect{X: 0, Y: presenterBox.Height, Width: width, Height: height * itemGridRatio}
	} else {
		// Landscape: presenters on the left, items to the right.
		presenterBox = Rect{X: 0, Y: 0, Width: width * (1 - itemGridRatio), Height: height}
		itemBox = Rect{X: presenterBox.Width, Y: 0, Width: width * itemGridRatio, Height: height}
	}

	presenters := Pack(cfg, presenterTileCount,
		ShapeFor(presenterTileCount, presenterBox.Width, presenterBox.Height),
		presenterBox.Width, presenterBox.Height, presenterBox.X, presenterBox.Y)
	items := Pack(cfg, itemCount,
		ShapeFor(itemCount, itemBox.Width, itemBox.Height),
		itemBox.Width, itemBox.Height, itemBox.X, itemBox.Y)

	return append(presenters, items...)
}

// OneOnOneLayout computes the two-tile call layout: a full-bleed remote tile
// and a floating picture-in-picture tile for the local participant.
//
// The result has the PiP tile at index 0 and the remote tile at index 1. The
// PiP has a fixed size and edge inset per viewport orientation, and floats at
//
//	pipMin + ratio*(pipMax - pipMin)
//
// independently per axis, where pipMin/pipMax are the remote tile's inset
// bounds minus the PiP size. Positions are therefore expressed in a
// continuous [0,1]×[0,1] space that survives viewport resizes: a PiP dragged
// to the bottom-right corner stays in the bottom-right corner. Ratios outside
// [0,1] are clamped.
func OneOnOneLayout(cfg Config, width, height float64, pipXRatio, pipYRatio float64) []Rect {
	if width <= 0 || height <= 0 {
		return []Rect{}
	}

	full := Pack(cfg, 1, Shape{Columns: 1, Rows: 1}, width, height, 0, 0)
	if len(full) == 0 {
		// Viewport smaller than the gap itself.
		return []Rect{}
	}
	remote := full[0]

	pipW, pipH, inset := cfg.PiPLandscapeWidth, cfg.PiPLandscapeHeight, cfg.PiPLandscapeGap
	if width/height < 1 {
		pipW, pipH, inset = cfg.PiPPortraitWidth, cfg.PiPPortraitHeight, cfg.PiPPortraitGap
	}

	pip := Rect{
		X:      pipAxis(remote.X+inset, remote.Right()-inset-pipW, pipXRatio),
		Y:      pipAxis(remote.Y+inset, remote.Bottom()-inset-pipH, pipYRatio),
		Width:  pipW,
		Height: pipH,
		ZIndex: 1,
	}

	return []Rect{pip, remote}
}

// pipAxis resolves one axis of the PiP position from its relative ratio.
// When the viewport is too small to fit the PiP at all, the minimum bound
// wins so the tile stays anchored to the top-left inset.
func pipAxis(min, max, ratio float64) float64 {
	if max < min {
		return min
	}
	return min + clamp01(ratio)*(max-min)
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
