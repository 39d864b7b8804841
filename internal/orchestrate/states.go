package orchestrate

// State names one step of the partition run. The run is an explicit machine
// rather than nested control flow so partial-failure states stay observable
// and testable.
type State int

const (
	Idle State = iota
	Inventorying
	AwaitingSelection
	Chunking
	Classifying
	AwaitingConfirmation
	Committing
	Done
	Aborted
)

var stateNames = map[State]string{
	Idle:                 "idle",
	Inventorying:         "inventorying",
	AwaitingSelection:    "awaiting-selection",
	Chunking:             "chunking",
	Classifying:          "classifying",
	AwaitingConfirmation: "awaiting-confirmation",
	Committing:           "committing",
	Done:                 "done",
	Aborted:              "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
