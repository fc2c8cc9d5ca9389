// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package launcher

// State is a step of an interactive run.
type State int

const (
	Idle State = iota
	Discovering
	Displaying
	AwaitingSelection
	AwaitingConfirmation
	Converting

	// Terminal states.
	NothingFound
	Quit
	SelectionInvalid
	NothingSelected
	Cancelled
	Done
)

var stateNames = map[State]string{
	Idle:                 "idle",
	Discovering:          "discovering",
	Displaying:           "displaying",
	AwaitingSelection:    "awaiting-selection",
	AwaitingConfirmation: "awaiting-confirmation",
	Converting:           "converting",
	NothingFound:         "nothing-found",
	Quit:                 "quit",
	SelectionInvalid:     "selection-invalid",
	NothingSelected:      "nothing-selected",
	Cancelled:            "cancelled",
	Done:                 "done",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether a run ends in s.
func (s State) Terminal() bool {
	return s >= NothingFound
}
