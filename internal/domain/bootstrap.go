package domain

import "fmt"

// BootstrapState is the progress of one singleton towards having code on chain
type BootstrapState string

const (
	BootstrapAbsent       BootstrapState = "absent"
	BootstrapFunding      BootstrapState = "funding"
	BootstrapBroadcasting BootstrapState = "broadcasting"
	BootstrapConfirming   BootstrapState = "confirming"
	BootstrapPresent      BootstrapState = "present"
)

// BootstrapMachine records the validated path a singleton bootstrap takes.
// The zero value is not usable; start with NewBootstrapMachine.
type BootstrapMachine struct {
	Singleton string
	current   BootstrapState
	history   []BootstrapState
}

// NewBootstrapMachine starts a machine in the Absent state
func NewBootstrapMachine(singleton string) *BootstrapMachine {
	return &BootstrapMachine{
		Singleton: singleton,
		current:   BootstrapAbsent,
		history:   []BootstrapState{BootstrapAbsent},
	}
}

// Current returns the state the machine is in
func (m *BootstrapMachine) Current() BootstrapState {
	return m.current
}

// History returns every state visited, in order
func (m *BootstrapMachine) History() []BootstrapState {
	out := make([]BootstrapState, len(m.history))
	copy(out, m.history)
	return out
}

// Transition moves to the next state if the step is allowed from the current one
func (m *BootstrapMachine) Transition(to BootstrapState) error {
	if !isAllowedBootstrapTransition(m.current, to) {
		return fmt.Errorf("%w for %s: %s -> %s", ErrIllegalTransition, m.Singleton, m.current, to)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}

// Done reports whether the singleton is known to be present
func (m *BootstrapMachine) Done() bool {
	return m.current == BootstrapPresent
}

func isAllowedBootstrapTransition(from, to BootstrapState) bool {
	switch from {
	case BootstrapAbsent:
		return to == BootstrapFunding || to == BootstrapBroadcasting || to == BootstrapPresent
	case BootstrapFunding:
		return to == BootstrapBroadcasting
	case BootstrapBroadcasting:
		// Present directly when another process already landed the transaction
		return to == BootstrapConfirming || to == BootstrapPresent
	case BootstrapConfirming:
		return to == BootstrapPresent
	default:
		return false
	}
}
