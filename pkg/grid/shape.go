package grid

import (
	"math"

	"github.com/kazin-kharizma/element-call/pkg/observability"
)

// Viewport breakpoints, by width/height aspect ratio. Each bucket carries its
// own column/row lookup because a shape that reads well on an ultrawide
// monitor is unusable on a phone.
const (
	breakpointPhone     = 3.0 / 4.0  // below: portrait phone
	breakpointTablet    = 1.0        // below: tablet / squarish window
	breakpointComputer  = 17.0 / 9.0 // below: regular monitor
	breakpointUltrawide = 32.0 / 9.0 // at or below: ultrawide; above: super-ultrawide
)

// aspectFill means "fill the cell, ignore aspect ratio".
const aspectFill = 0.0

// maxTableTiles is the largest tile count with an explicit table entry.
// Larger counts degrade to an approximately square fallback grid.
const maxTableTiles = 12

// shapeEntry is one row of the breakpoint table: the shape for a contiguous
// range of tile counts within one viewport bucket.
type shapeEntry struct {
	maxTiles int // entry applies to counts up to and including this
	columns  int
	rows     int
	aspect   float64
}

// The breakpoint table. This is the single source of truth for how many
// columns a given participant count gets at a given viewport shape; changing
// it changes the product's visual behavior. Entries are scanned in order and
// the first one with maxTiles >= tileCount wins.
var shapeTable = map[string][]shapeEntry{
	"phone": {
		{1, 1, 1, aspectFill},
		{2, 1, 2, aspectFill},
		{4, 2, 2, 1},
		{6, 2, 3, 1},
		{8, 2, 4, 1},
		{12, 3, 4, 1},
	},
	"tablet": {
		{1, 1, 1, aspectFill},
		{2, 1, 2, 16.0 / 9.0},
		{4, 2, 2, 16.0 / 9.0},
		{6, 2, 3, 1},
		{8, 3, 3, 1},
		{12, 3, 4, 1},
	},
	"computer": {
		{1, 1, 1, aspectFill},
		{2, 2, 1, 16.0 / 9.0},
		{4, 2, 2, 16.0 / 9.0},
		{6, 3, 2, 16.0 / 9.0},
		{8, 4, 2, 1},
		{12, 4, 3, 1},
	},
	"ultrawide": {
		{1, 1, 1, aspectFill},
		{2, 2, 1, 16.0 / 9.0},
		{4, 4, 1, 16.0 / 9.0},
		{6, 3, 2, 16.0 / 9.0},
		{8, 4, 2, 16.0 / 9.0},
		{12, 6, 2, 16.0 / 9.0},
	},
	// Anything wider than 32:9 is best-effort; the thresholds below are a
	// policy choice, not a hard product requirement.
	"super-ultrawide": {
		{1, 1, 1, aspectFill},
		{2, 2, 1, 16.0 / 9.0},
		{4, 4, 1, 16.0 / 9.0},
		{6, 6, 1, 16.0 / 9.0},
		{8, 8, 1, 16.0 / 9.0},
		{12, 6, 2, 16.0 / 9.0},
	},
}

// viewportBucket names the breakpoint bucket for the given viewport.
func viewportBucket(width, height float64) string {
	ratio := width / height
	switch {
	case ratio < breakpointPhone:
		return "phone"
	case ratio < breakpointTablet:
		return "tablet"
	case ratio < breakpointComputer:
		return "computer"
	case ratio <= breakpointUltrawide:
		return "ultrawide"
	default:
		return "super-ultrawide"
	}
}

// ShapeFor returns the sub-grid shape for tileCount tiles packed into a box
// of the given pixel dimensions.
//
// Shapes come from an explicit lookup table keyed by the viewport bucket
// (phone <3:4, tablet <1:1, computer <17:9, ultrawide ≤32:9, else
// super-ultrawide) and the tile count bucketed as 1, 2, 3–4, 5–6, 7–8 and
// 9–12. Counts beyond 12 degrade to an approximately square grid and report
// through [observability.LayoutHooks.OnFallbackShape]; ShapeFor never fails.
//
// A zero TileAspect in the result means the tile should fill its cell
// without aspect-ratio correction.
func ShapeFor(tileCount int, width, height float64) Shape {
	if tileCount <= 0 {
		return Shape{}
	}

	bucket := viewportBucket(width, height)
	if tileCount > maxTableTiles {
		observability.Layout().OnFallbackShape(tileCount)
		return fallbackShape(tileCount, bucket)
	}

	for _, e := range shapeTable[bucket] {
		if tileCount <= e.maxTiles {
			return Shape{Columns: e.columns, Rows: e.rows, TileAspect: e.aspect}
		}
	}
	// Unreachable while the table covers 1..maxTableTiles, kept so a table
	// edit cannot introduce a panic.
	return fallbackShape(tileCount, bucket)
}

// fallbackShape packs n tiles into an approximately square grid. Phones cap
// the column count so tiles stay tappable.
func fallbackShape(n int, bucket string) Shape {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if bucket == "phone" && cols > 3 {
		cols = 3
	}
	rows := (n + cols - 1) / cols
	return Shape{Columns: cols, Rows: rows, TileAspect: 1}
}
