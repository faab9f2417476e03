package domain

// IntentType classifies a hands-free command heard during a cooking session.
type IntentType int

const (
	IntentNone IntentType = iota
	IntentNextStep
	IntentPreviousStep
	IntentStartTimer
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentNextStep:
		return "next_step"
	case IntentPreviousStep:
		return "previous_step"
	case IntentStartTimer:
		return "start_timer"
	default:
		return "none"
	}
}

// Intent is a parsed voice command. Seconds carries the timer duration for
// IntentStartTimer; zero means none could be determined.
type Intent struct {
	Type    IntentType
	Seconds int
}
