package flattree

import "errors"

var (
	// ErrNoNode is returned when a display id does not resolve to a node.
	ErrNoNode = errors.New("no such node")
	// ErrCycle is returned when a move or copy would place a node inside its
	// own subtree.
	ErrCycle = errors.New("destination is inside the source subtree")
	// ErrWrongMode is returned by operations that only apply in MULTIPLE mark mode.
	ErrWrongMode = errors.New("operation requires MULTIPLE mark mode")
)
