package nodestore

// Status is the execution state of a single action.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusSkipped
)

var statusNames = [...]string{
	StatusPending:   "pending",
	StatusReady:     "ready",
	StatusRunning:   "running",
	StatusSucceeded: "succeeded",
	StatusFailed:    "failed",
	StatusSkipped:   "skipped",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText renders the status by name, so JSON snapshots stay readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusSkipped
}

var transitions = map[Status][]Status{
	StatusPending: {StatusReady, StatusSkipped},
	StatusReady:   {StatusRunning, StatusSkipped},
	StatusRunning: {StatusSucceeded, StatusFailed},
}

// CanTransition reports whether from → to is an allowed transition.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
