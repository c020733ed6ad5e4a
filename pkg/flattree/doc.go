// Package flattree implements a custom-drawn, virtualized hierarchical list
// control. Every visual element (expand glyphs, indentation guides, toggle
// boxes, selection and focus feedback) is computed by the control and drawn
// against an abstract Canvas supplied by the host.
//
// Nodes are addressed from the outside by display id: the 0-based index of a
// node in a pre-order traversal of the forest. Display ids are contiguous and
// are only stable between structural edits; any id obtained before an add,
// insert, remove, move or copy must be treated as stale afterwards.
//
// The control is single-threaded. All methods must be called from the goroutine
// that owns the host event loop (for the terminal host that is the bubbletea
// Update loop). Mutations mark the control dirty and ask the host for a repaint
// through the Updater; repaints are coalesced until the next Draw.
//
// Interaction handlers never return errors. An event that resolves to no node,
// or an operation that does not apply in the current mark mode, is a silent
// no-op.
package flattree
