package speech

import "time"

// Audio parameters for synthesized speech. The TTS backend returns raw
// 16-bit signed PCM, mono, 24 kHz, and the player is configured to match.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Priority levels for speech requests. Higher value = speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // watcher comments, idle chatter
	PriorityNormal                   // step instructions, info
	PriorityHigh                     // timer notifications
	PriorityCritical                 // urgent alerts, errors
)

// SpeechRequest is a queued item waiting to be spoken.
type SpeechRequest struct {
	Text     string
	Priority Priority
	QueuedAt time.Time
}
