// Package grid computes tile rectangles for a video call viewport.
//
// The package is the pure-geometry half of the call grid engine: given a tile
// count, a presenter count, viewport pixel dimensions and a layout mode, it
// produces one rectangle per tile. It holds no state; the stateful tile
// bookkeeping (ordering, reconciliation, gestures) lives in the state
// subpackage and calls into this one.
//
// # Layout Modes
//
// Two modes are supported:
//
//   - Freedom: tiles are packed into a responsive grid. When presenter tiles
//     exist they get their own sub-grid occupying two thirds of the viewport,
//     with the remaining tiles packed beside (landscape) or below (portrait)
//     it. Exactly two tiles with no presenter collapse into the one-on-one
//     case: a full-bleed remote tile plus a small floating picture-in-picture
//     tile for the local participant.
//
//   - Spotlight: one large focal tile taking four fifths of the primary axis,
//     with the remaining tiles rendered as a single scrollable line of square
//     spectator tiles along the secondary axis.
//
// # Breakpoints
//
// Grid shapes are selected from an explicit breakpoint table keyed by the
// viewport aspect ratio (phone, tablet, computer, ultrawide, super-ultrawide)
// and the tile count. The table is the single source of truth for "how many
// columns for N tiles at this shape"; see [ShapeFor]. Counts beyond the table
// fall back to an approximately square grid and never fail.
//
// # Usage
//
//	cfg := grid.DefaultConfig()
//	rects := grid.Positions(cfg, grid.PositionsInput{
//	    TileCount: 5,
//	    Width:     1280,
//	    Height:    720,
//	    Mode:      grid.ModeFreedom,
//	})
//
// All functions are pure: identical inputs yield identical rectangles.
package grid
