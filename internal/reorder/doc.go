// Package reorder turns a drag intent into the minimal list of position
// updates that realises it.
//
// Everything here is pure: the functions read a snapshot and return updates,
// they never modify the snapshot or perform I/O.
package reorder
