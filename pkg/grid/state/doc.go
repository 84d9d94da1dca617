// Package state owns the mutable half of the call grid engine: the tile
// list, its ordering, and the gesture state that lets a user rearrange it.
//
// A [Controller] is the single owner of all grid state. Collaborators feed
// it item-list updates ([Controller.SetItems]), viewport changes
// ([Controller.SetViewport]), mode switches ([Controller.SetUserMode]) and
// pointer events ([Controller.Pointer]); it reconciles those into a stable
// tile ordering and fresh rectangles from the geometry package, and exposes
// the result as immutable snapshots ([Controller.Tiles],
// [Controller.Snapshot]).
//
// # Reconciliation
//
// Incoming item lists are merged against the existing tiles, never rebuilt:
// tiles keep their identity and order across updates, new tiles append at
// the end, and departed tiles linger for a grace period (pendingRemoval) so
// the renderer can animate their exit before they are purged. A departed key
// that reappears within the grace window cancels the purge and reuses the
// tile in place.
//
// # Concurrency
//
// All entry points serialize through one mutex, so hosts may deliver events
// from any goroutine. Removal timers re-enter through the same mutex and
// check a liveness flag first; after [Controller.Close] they fire as no-ops.
package state
