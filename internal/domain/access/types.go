package access

type State string

const (
	StateActive  State = "active"
	StateGrace   State = "grace" // canceled, still inside the paid period
	StatePastDue State = "past_due"
	StateLocked  State = "locked"
)

// Unlocked reports whether the dashboard is usable in this state.
func (s State) Unlocked() bool {
	return s == StateActive || s == StateGrace
}
