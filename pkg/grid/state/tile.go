package state

import "github.com/kazin-kharizma/element-call/pkg/grid"

// Item is the external descriptor of one participant or screenshare feed.
// The engine treats it as opaque apart from these fields.
type Item struct {
	// Key is the stable, unique identity of the item.
	Key string `json:"key"`

	// Focused marks an item the user or host wants promoted.
	Focused bool `json:"focused,omitempty"`

	// Presenter marks an item that is screen-sharing. Any presenter forces
	// the grid into spotlight mode.
	Presenter bool `json:"presenter,omitempty"`

	// Local marks the local participant's own feed.
	Local bool `json:"local,omitempty"`
}

// Tile is one positioned, orderable slot in the grid, bound to an item.
// Tiles returned from snapshot accessors are copies; mutating them has no
// effect on the controller.
type Tile struct {
	Key string

	// Order is this tile's position in the render sequence. Order values
	// of all retained tiles always form a dense permutation of 0..n-1.
	Order int

	Item Item

	Focused   bool
	Presenter bool

	// PendingRemoval marks a tile whose item has left but which is kept
	// around until the exit grace period expires.
	PendingRemoval bool
}

// TileView is the per-tile output tuple handed to rendering collaborators.
type TileView struct {
	Key  string
	Rect grid.Rect
	Item Item

	Focused        bool
	Presenter      bool
	PendingRemoval bool

	// Dragging is set while a pointer drag is holding this tile.
	Dragging bool
}

// Snapshot is a value copy of the full grid state, safe to hand across
// goroutines. Rects is parallel to Tiles and indexed by Tile.Order.
type Snapshot struct {
	Tiles []Tile
	Rects []grid.Rect

	PiPX, PiPY float64
	Scroll     float64

	Mode          grid.Mode
	Width, Height float64
}

// Arrangement is the durable, user-chosen part of the grid state: the tile
// order, the picture-in-picture corner and the selected mode. It is what the
// HTTP service persists so a rejoining user gets their arrangement back.
type Arrangement struct {
	Order []string  `json:"order" bson:"order"`
	PiPX  float64   `json:"pip_x" bson:"pip_x"`
	PiPY  float64   `json:"pip_y" bson:"pip_y"`
	Mode  grid.Mode `json:"mode" bson:"mode"`
}

// tile is the controller-internal mutable tile.
type tile struct {
	key            string
	order          int
	item           Item
	focused        bool
	presenter      bool
	pendingRemoval bool

	// lastRect is the most recent rectangle computed for this tile. Tiles
	// pending removal keep it so exit animations have a stable origin.
	lastRect grid.Rect

	// cancelPurge cancels the scheduled removal timer, if any.
	cancelPurge func()
}

func (t *tile) view() Tile {
	return Tile{
		Key:            t.key,
		Order:          t.order,
		Item:           t.item,
		Focused:        t.focused,
		Presenter:      t.presenter,
		PendingRemoval: t.pendingRemoval,
	}
}
