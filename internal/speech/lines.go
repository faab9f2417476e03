// Package speech — lines.go centralises every spoken string.
// Edit this file to change the assistant's personality. Keep lines short
// and direct; the TTS engine handles inflection.
package speech

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// ── Greeting / Global ────────────────────────────────────────────

func LineWelcome() string {
	return "Hello. What are we cooking today?"
}

func LineBye() string {
	return "Bye."
}

// ── Recipe ───────────────────────────────────────────────────────

// LineRecipeReady is spoken after generation finishes. It reads out the
// ingredients so the user can gather them.
func LineRecipeReady(title string, ingredients []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's %s. You'll need: ", title)
	for i, ing := range ingredients {
		if i > 0 && i == len(ingredients)-1 {
			b.WriteString(", and ")
		} else if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ing)
	}
	b.WriteString(". Say cook when you're ready.")
	return b.String()
}

// ── Cooking session ──────────────────────────────────────────────

func LineCookingStart(title string) string {
	return fmt.Sprintf("Cooking %s. Here we go.", title)
}

func LineNoSession() string {
	return "No active cooking session."
}

func LineLastStep() string {
	return "That's the last step. You're done."
}

func LineFirstStep() string {
	return "You're already on the first step."
}

func LineTimerStarted(d time.Duration) string {
	return fmt.Sprintf("Timer set for %s.", FormatDurationSpeech(d))
}

func LineNoTimerInStep() string {
	return "I couldn't find a duration in this step."
}

func LineTimerAlreadyRunning() string {
	return "A timer is already running."
}

func LineVoiceOn() string {
	return "Voice control is on. I'm listening."
}

func LineVoiceOff() string {
	return "Voice control is off."
}

// LineStep builds the spoken text for a cooking step.
func LineStep(number, total int, instruction string) string {
	return fmt.Sprintf("Step %d of %d. %s", number, total, instruction)
}

// ── Thinking fillers ─────────────────────────────────────────────
// Spoken while waiting for the model to respond. Randomized to avoid
// repetition.

var thinkingFillers = []string{
	"Let me think about that.",
	"Hmm, one moment.",
	"Hang on, thinking.",
	"One second, looking that up.",
	"Give me a beat.",
	"Working on it.",
}

// LineThinking returns a random filler for when a request is in flight.
func LineThinking() string {
	return thinkingFillers[rand.Intn(len(thinkingFillers))]
}

// ThinkingFillers returns every filler string so they can be prefetched
// into the TTS cache at startup.
func ThinkingFillers() []string {
	out := make([]string, len(thinkingFillers))
	copy(out, thinkingFillers)
	return out
}

// ── Helpers ──────────────────────────────────────────────────────

// FormatDurationSpeech returns a human-friendly spoken duration.
func FormatDurationSpeech(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	switch {
	case m == 0:
		return fmt.Sprintf("%d seconds", s)
	case s == 0 && m == 1:
		return "1 minute"
	case s == 0:
		return fmt.Sprintf("%d minutes", m)
	default:
		return fmt.Sprintf("%d minutes %d seconds", m, s)
	}
}
