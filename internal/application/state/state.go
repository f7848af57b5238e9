// Package state defines the phases of a fade transition.
package state

// Phase represents the current phase of a fade transition
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingOut
	PhaseAwaitingOperation
	PhaseFadingIn
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseFadingOut:
		return "FadingOut"
	case PhaseAwaitingOperation:
		return "AwaitingOperation"
	case PhaseFadingIn:
		return "FadingIn"
	default:
		return "Unknown"
	}
}

// Busy reports whether a transition is in flight
func (p Phase) Busy() bool {
	return p != PhaseIdle
}
