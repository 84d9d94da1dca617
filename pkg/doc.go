// Package pkg provides the core libraries for Element Call tile layout.
//
// # Overview
//
// Element Call arranges video call tiles into responsive grids. The pkg
// directory is organized into a small set of areas:
//
//  1. [grid] - Layout geometry (breakpoints, packing, freedom/spotlight/PiP)
//  2. [grid/state] - Live tile state (reconciliation, ordering, gestures)
//  3. [session] - Persistence of user arrangements (memory, Redis, file)
//  4. [errors] - Structured errors with stable codes
//  5. [observability] - Pluggable instrumentation hooks
//
// # Architecture
//
// The typical data flow through the engine:
//
//	Participant roster + viewport
//	         ↓
//	    [grid/state] package (reconcile tiles, interpret gestures)
//	         ↓
//	    [grid] package (pick a shape, pack rectangles)
//	         ↓
//	    tile rectangles for the renderer
//
// # Quick Start
//
// Compute rectangles directly:
//
//	rects := grid.Positions(grid.DefaultConfig(), grid.PositionsInput{
//	    TileCount: 5,
//	    Width:     1280,
//	    Height:    720,
//	    Mode:      grid.ModeFreedom,
//	})
//
// Or drive a live call:
//
//	ctrl := state.NewController(grid.DefaultConfig())
//	defer ctrl.Close()
//	ctrl.SetViewport(1280, 720)
//	ctrl.SetItems([]state.Item{{Key: "alice"}, {Key: "bob", Local: true}})
//	for _, tile := range ctrl.Tiles() {
//	    draw(tile.Key, tile.Rect)
//	}
package pkg
