package flattree

import (
	"fmt"
	"strings"
)

// Kind distinguishes nodes that may own children (branches) from those that
// may not (leaves).
type Kind int

const (
	Branch Kind = iota
	Leaf
)

func (k Kind) String() string {
	if k == Leaf {
		return "LEAF"
	}
	return "BRANCH"
}

// ParseKind parses BRANCH or LEAF (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BRANCH":
		return Branch, nil
	case "LEAF":
		return Leaf, nil
	}
	return Branch, fmt.Errorf("invalid kind: %q", s)
}

// State is the expand state of a branch. Leaves report NoState.
type State int

const (
	NoState State = iota
	Expanded
	Collapsed
)

func (s State) String() string {
	switch s {
	case Expanded:
		return "EXPANDED"
	case Collapsed:
		return "COLLAPSED"
	}
	return ""
}

// ParseState parses EXPANDED or COLLAPSED (case-insensitive).
func ParseState(s string) (State, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EXPANDED":
		return Expanded, nil
	case "COLLAPSED":
		return Collapsed, nil
	}
	return NoState, fmt.Errorf("invalid state: %q", s)
}

// Toggle is the value of a node's toggle box.
type Toggle int

const (
	ToggleNotDef Toggle = -1 // indeterminate, only reachable in three-state mode
	ToggleOff    Toggle = 0
	ToggleOn     Toggle = 1
)

func (t Toggle) String() string {
	switch t {
	case ToggleOn:
		return "ON"
	case ToggleNotDef:
		return "NOTDEF"
	}
	return "OFF"
}

// ParseToggle parses ON, OFF or NOTDEF (case-insensitive).
func ParseToggle(s string) (Toggle, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON":
		return ToggleOn, nil
	case "OFF":
		return ToggleOff, nil
	case "NOTDEF":
		return ToggleNotDef, nil
	}
	return ToggleOff, fmt.Errorf("invalid toggle value: %q", s)
}

// ToggleMode controls whether toggle boxes are shown and how many states they
// cycle through.
type ToggleMode int

const (
	ToggleHidden ToggleMode = iota
	ToggleTwoState
	ToggleThreeState
)

func (m ToggleMode) String() string {
	switch m {
	case ToggleTwoState:
		return "YES"
	case ToggleThreeState:
		return "3STATE"
	}
	return "NO"
}

// ParseToggleMode parses NO, YES or 3STATE. Boolean spellings are accepted for
// the two-state forms.
func ParseToggleMode(s string) (ToggleMode, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "3STATE" {
		return ToggleThreeState, nil
	}
	b, err := ParseBool(v)
	if err != nil {
		return ToggleHidden, fmt.Errorf("invalid toggle mode: %q", s)
	}
	if b {
		return ToggleTwoState, nil
	}
	return ToggleHidden, nil
}

// MarkMode selects between single selection coupled to focus and independent
// multi-marking.
type MarkMode int

const (
	MarkSingle MarkMode = iota
	MarkMultiple
)

func (m MarkMode) String() string {
	if m == MarkMultiple {
		return "MULTIPLE"
	}
	return "SINGLE"
}

// ParseMarkMode parses SINGLE or MULTIPLE (case-insensitive).
func ParseMarkMode(s string) (MarkMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SINGLE":
		return MarkSingle, nil
	case "MULTIPLE":
		return MarkMultiple, nil
	}
	return MarkSingle, fmt.Errorf("invalid mark mode: %q", s)
}

// ParseBool accepts YES/NO, ON/OFF, TRUE/FALSE and 1/0 in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "ON", "TRUE", "1":
		return true, nil
	case "NO", "OFF", "FALSE", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %q", s)
}

// FormatBool renders b the way the attribute layer expects it.
func FormatBool(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// handle addresses a slot in the node arena.
type handle int32

const (
	noHandle   handle = -1
	rootHandle handle = 0
)

// node is one arena slot. Links are handles; parent is a back-reference only.
type node struct {
	title string

	image             Image
	imageName         string
	imageExpanded     Image
	imageExpandedName string

	color     *Color
	backColor *Color
	font      *Font

	kind          Kind
	state         State
	toggle        Toggle
	toggleVisible bool
	selected      bool
	userdata      any

	// id is re-stamped on every index rebuild and is authoritative.
	id int

	// Layout cache, recomputed whenever title, font, icon, depth or
	// indentation change.
	width, height int

	parent      handle
	firstChild  handle
	nextSibling handle

	live bool
}

func newNode(title string, kind Kind) node {
	n := node{
		title:         title,
		kind:          kind,
		toggleVisible: true,
		id:            -1,
		parent:        noHandle,
		firstChild:    noHandle,
		nextSibling:   noHandle,
		live:          true,
	}
	if kind == Branch {
		n.state = Collapsed
	}
	return n
}
