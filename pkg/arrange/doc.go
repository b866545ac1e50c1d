// Package arrange computes diagram positions for simulation model nodes.
//
// # Modes
//
// [Arranger.GridAlign] snaps existing positions to the grid and never fails.
//
// [Arranger.FullArrange] recomputes positions from the topology of the
// selection: sources on the left, sinks on the right, parallel branches
// stacked vertically. The selection must form a single weakly connected
// component ([ErrDisconnected]) with at least one node that has no incoming
// edge inside the selection ([ErrNoSource]). On failure no node is moved.
//
// # Algorithm
//
// FullArrange works on an arena of boxes, one per node, addressed by index:
//
//  1. Every selected non-vertex node pulls in the vertex nodes between it
//     and the next non-vertex node along each outgoing edge.
//  2. Forward and backward connections are filled from the drawn edges
//     restricted to the arena.
//  3. The arena must be connected (see package reach).
//  4. Boxes without incoming connections are start elements.
//  5. Start elements, ordered by their current Y, are placed depth first:
//     a box takes the current (column, row); its successors, ordered by
//     current Y, follow in column+1, each further sibling on a fresh row.
//  6. Columns and rows are scaled to pixels and written back.
//
// Ordering by current Y keeps the user's vertical arrangement, so repeated
// runs are stable as long as the relative vertical order does not change.
//
// # Concurrency
//
// An Arranger keeps the layers of its last run. Do not share an Arranger
// between goroutines.
package arrange
