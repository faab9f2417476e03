// Package speech provides text-to-speech output and speech-to-text input.
package speech

import (
	"context"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// Compile-time interface check.
var _ domain.Speaker = (*NoOpSpeaker)(nil)

// NoOpSpeaker is a speaker that does nothing. Used when voice output is
// disabled or the audio device failed to initialize.
type NoOpSpeaker struct {
	log *logger.Logger
}

// NewNoOpSpeaker creates a no-op speaker.
func NewNoOpSpeaker(log *logger.Logger) *NoOpSpeaker {
	return &NoOpSpeaker{log: log}
}

// Speak does nothing.
func (n *NoOpSpeaker) Speak(ctx context.Context, text string) error {
	n.log.Debug("speech no-op: would say %q", text)
	return nil
}

// Interrupt does nothing.
func (n *NoOpSpeaker) Interrupt() {}
