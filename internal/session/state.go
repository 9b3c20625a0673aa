// Package session coordinates one interactive synthesis session: it owns
// the phase state machine, routes dispatch results into playback, and
// publishes lifecycle messages for the UI.
package session

// Phase is the session's current lifecycle stage.
type Phase int

const (
	// PhaseIdle means no synthesis is in flight and nothing is playing.
	PhaseIdle Phase = iota
	// PhaseLoading means a dispatch is outstanding.
	PhaseLoading
	// PhasePlaying means audio is being produced.
	PhasePlaying
	// PhaseError means the last dispatch failed; cleared by the next
	// successful generate.
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Machine enforces the session's valid phase transitions.
type Machine struct {
	current     Phase
	transitions map[Phase][]Phase
}

// NewMachine creates a machine starting at PhaseIdle.
func NewMachine() *Machine {
	return &Machine{
		current: PhaseIdle,
		transitions: map[Phase][]Phase{
			PhaseIdle:    {PhaseLoading},
			PhaseLoading: {PhasePlaying, PhaseError, PhaseIdle},
			PhasePlaying: {PhaseIdle, PhaseError},
			PhaseError:   {PhaseLoading, PhaseIdle},
		},
	}
}

// Transition moves to the target phase if the move is valid and reports
// whether it happened.
func (m *Machine) Transition(to Phase) bool {
	for _, next := range m.transitions[m.current] {
		if next == to {
			m.current = to
			return true
		}
	}
	return false
}

// Current returns the current phase.
func (m *Machine) Current() Phase {
	return m.current
}
