// Package drag drives one board's drag-and-drop lifecycle.
//
// A drag gesture moves through Idle, Dragging, Resolving, Applying and
// Syncing. The Store holds the board snapshot the user sees; a completed drag
// swaps in an optimistic successor and rolls back to the pre-drag snapshot
// if the server rejects the batch. A new drag may start while earlier ones
// are still syncing; their batches are serialized by a syncclient.Queue.
package drag
