package event

import "strconv"

// Priority orders listeners registered for the same event.
// Higher values run first.
type Priority int

const (
	PriorityLow    Priority = -100
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 100
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	default:
		return strconv.Itoa(int(p))
	}
}

// pickPriority returns the first of ps, or def when none was passed.
func pickPriority(def Priority, ps []Priority) Priority {
	if len(ps) == 0 {
		return def
	}
	return ps[0]
}
