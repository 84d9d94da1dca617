package grid

// Mode selects the layout algorithm.
type Mode string

// Supported layout modes.
const (
	// ModeFreedom packs tiles into a responsive grid with an optional
	// presenter sub-grid and user-controlled ordering.
	ModeFreedom Mode = "freedom"

	// ModeSpotlight shows one large focal tile plus a strip of square
	// spectator tiles.
	ModeSpotlight Mode = "spotlight"
)

// Valid reports whether m is a known layout mode.
func (m Mode) Valid() bool {
	return m == ModeFreedom || m == ModeSpotlight
}

// Rect is a positioned tile rectangle in viewport pixel coordinates.
// Rectangles are produced fresh on every layout computation and never
// mutated in place.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	ZIndex int     `json:"z_index,omitempty" bson:"z_index,omitempty"`
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies within the rectangle,
// bounds inclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Shape describes a sub-grid: how many columns and rows to pack tiles into,
// and the aspect ratio each tile should target.
type Shape struct {
	Columns int
	Rows    int

	// TileAspect is the width/height ratio tiles should be shrunk towards.
	// Zero means "fill the cell, ignore aspect ratio".
	TileAspect float64
}
