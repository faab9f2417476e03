package domain

// Timer is a countdown attached to the current cooking step. SecondsLeft
// counts down to zero; Active flips false at zero but the timer stays
// attached until a step change clears it, so the UI can show "done".
type Timer struct {
	Duration    int
	SecondsLeft int
	Active      bool
}

// SessionSnapshot is a read-only view of a cooking session, safe to hand
// to the UI or the speech layer without holding engine locks.
type SessionSnapshot struct {
	RecipeTitle  string
	StepIndex    int
	StepCount    int
	Instruction  string
	Timer        *Timer // nil when no timer is attached
	VoiceEnabled bool
}

// HasNext reports whether the cursor can advance.
func (s SessionSnapshot) HasNext() bool {
	return s.StepIndex < s.StepCount-1
}

// HasPrevious reports whether the cursor can move back.
func (s SessionSnapshot) HasPrevious() bool {
	return s.StepIndex > 0
}
