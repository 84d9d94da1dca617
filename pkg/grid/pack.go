package grid

import "math"

// Pack lays out tileCount tiles as a sub-grid inside a box of boxWidth by
// boxHeight pixels, with its top-left corner at (offsetX, offsetY) in
// viewport coordinates.
//
// Cells are sized by dividing the box evenly after reserving cfg.Gap between
// and around them. When shape.TileAspect is nonzero the larger cell dimension
// shrinks to hit the target width/height ratio; tiles are never upscaled past
// the cell. Tiles fill row-major and a partial last row is centered
// horizontally.
//
// After placement, the tight bounding box of all tiles is translated so it is
// centered within the destination box. Any unused space from aspect-ratio
// shrinkage is therefore split evenly on both axes, and a caller laying two
// sub-grids side by side can position each through the offset parameters
// without the grids drifting apart.
//
// Degenerate inputs (no tiles, non-positive box or shape) return an empty
// slice rather than dividing by zero.
func Pack(cfg Config, tileCount int, shape Shape, boxWidth, boxHeight, offsetX, offsetY float64) []Rect {
	if tileCount <= 0 || shape.Columns <= 0 || shape.Rows <= 0 || boxWidth <= 0 || boxHeight <= 0 {
		return []Rect{}
	}

	gap := cfg.Gap
	cellWidth := (boxWidth - gap*float64(shape.Columns+1)) / float64(shape.Columns)
	cellHeight := (boxHeight - gap*float64(shape.Rows+1)) / float64(shape.Rows)
	if cellWidth <= 0 || cellHeight <= 0 {
		return []Rect{}
	}

	tileWidth, tileHeight := fitCell(cellWidth, cellHeight, shape.TileAspect)

	lastRow := (tileCount - 1) / shape.Columns
	lastRowCount := tileCount - lastRow*shape.Columns

	rects := make([]Rect, tileCount)
	for i := 0; i < tileCount; i++ {
		row := i / shape.Columns
		col := i % shape.Columns

		var rowShift float64
		if row == lastRow && lastRowCount < shape.Columns {
			rowShift = float64(shape.Columns-lastRowCount) * (tileWidth + gap) / 2
		}

		rects[i] = Rect{
			X:      gap + float64(col)*(tileWidth+gap) + rowShift,
			Y:      gap + float64(row)*(tileHeight+gap),
			Width:  tileWidth,
			Height: tileHeight,
		}
	}

	centerIn(rects, boxWidth, boxHeight, offsetX, offsetY)
	return rects
}

// fitCell shrinks a cell to the target width/height ratio. A zero ratio
// keeps the cell as-is.
func fitCell(cellWidth, cellHeight, aspect float64) (float64, float64) {
	if aspect == 0 {
		return cellWidth, cellHeight
	}
	if cellWidth/cellHeight > aspect {
		return cellHeight * aspect, cellHeight
	}
	return cellWidth, cellWidth / aspect
}

// centerIn translates rects uniformly so their tight bounding box is centered
// in a boxWidth by boxHeight destination box whose top-left corner sits at
// (offsetX, offsetY).
func centerIn(rects []Rect, boxWidth, boxHeight, offsetX, offsetY float64) {
	if len(rects) == 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}

	dx := (boxWidth-(maxX-minX))/2 - minX + offsetX
	dy := (boxHeight-(maxY-minY))/2 - minY + offsetY
	for i := range rects {
		rects[i].X += dx
		rects[i].Y += dy
	}
}
