package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// Compile-time interface check.
var _ domain.Recognizer = (*Ear)(nil)

// envAnnotation matches whisper environmental annotations like
// "(keyboard clicking)", "[laughter]", "(speaking French)", etc.
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z\s]*[\)\]]`)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each recording chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.recordDuration = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// Ear provides continuous speech-to-text input using a local Whisper
// model. Voice mode is an explicit toggle, so there is no wake word: once
// started, the ear records short chunks back to back, transcribes each,
// and sends anything that survives artifact cleanup down the channel.
// Recording pauses while the mouth is speaking so the microphone doesn't
// pick up our own voice.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
	mouth      *Mouth // optional — echo prevention

	recordDuration time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	textCh  chan string // transcribed utterances flow here
}

// NewEar creates a voice input listener.
//
//   - whisperBin: path to the whisper-cli executable
//   - modelPath:  path to the GGML model file
//   - mouth:      optional Mouth, consulted to avoid recording our own TTS
func NewEar(whisperBin, modelPath string, mouth *Mouth, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:     whisperBin,
		modelPath:      modelPath,
		tempDir:        ".souschef-stt",
		log:            log,
		mouth:          mouth,
		recordDuration: 3 * time.Second,
		textCh:         make(chan string, 8),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// C returns the channel that receives transcribed utterances. Read from
// this in your main loop to get voice input.
func (e *Ear) C() <-chan string {
	return e.textCh
}

// Available reports whether both the whisper binary and the model file
// are reachable on this machine.
func (e *Ear) Available() bool {
	if _, err := exec.LookPath(e.whisperBin); err != nil {
		return false
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return false
	}
	return true
}

// Start launches the listening loop. Returns an error if the ear is
// already running or the whisper setup is missing.
func (e *Ear) Start(ctx context.Context) error {
	if !e.Available() {
		return fmt.Errorf("ear: whisper binary %q or model %q not found: %w", e.whisperBin, e.modelPath, domain.ErrUnavailable)
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("ear: already listening")
	}
	ctx, cancel := context.WithCancel(ctx)
	e.running = true
	e.cancel = cancel
	e.done = make(chan struct{})
	done := e.done
	e.mu.Unlock()

	go func() {
		defer close(done)
		e.run(ctx)
	}()

	e.log.Info("ear: started (chunk=%s)", e.recordDuration)
	return nil
}

// Stop ends the listening loop and waits for the in-flight recording to
// wind down. Safe to call when not running.
func (e *Ear) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	cancel()
	<-done

	// Whisper leaves its temporary WAVs behind.
	if err := os.RemoveAll(e.tempDir); err != nil {
		e.log.Warn("ear: cleaning %s: %v", e.tempDir, err)
	}

	e.log.Info("ear: stopped")
	return nil
}

func (e *Ear) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Echo prevention: don't record while the mouth is speaking.
		if e.mouthBusy() {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
				return
			}
			continue
		}

		text := e.recordChunk(ctx, e.recordDuration)

		// Post-recording echo check: if the mouth started speaking
		// during our recording, the audio is contaminated — discard it.
		if e.mouthBusy() {
			e.log.Debug("ear: discarding — mouth started during recording")
			continue
		}

		text = cleanTranscription(text)
		if text == "" {
			continue
		}

		e.log.Info("ear: heard %q", text)
		select {
		case e.textCh <- text:
		case <-ctx.Done():
			return
		}
	}
}

func (e *Ear) mouthBusy() bool {
	return e.mouth != nil && (e.mouth.IsSpeaking() || e.mouth.QueueLen() > 0)
}

// ── Recording ────────────────────────────────────────────────────

// recordChunk does one recording cycle with the given duration and
// returns the transcribed text.
func (e *Ear) recordChunk(ctx context.Context, duration time.Duration) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	callback := func(text string) {
		result = text
		wg.Done()
	}

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(
		e.whisperBin,
		e.modelPath,
		e.tempDir,
		"wav",
		callback,
		verbose,
	)
	if err != nil {
		e.log.Error("ear: transcriber init failed: %v", err)
		time.Sleep(2 * time.Second)
		return ""
	}

	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start failed: %v", err)
		time.Sleep(2 * time.Second)
		return ""
	}

	select {
	case <-time.After(duration):
	case <-ctx.Done():
		t.Stop()
		wg.Wait()
		return ""
	}

	t.Stop()
	wg.Wait()

	return result
}

// ── Transcription cleanup ────────────────────────────────────────

// cleanTranscription strips whitespace, normalizes newlines, and removes
// common whisper artifacts like "[BLANK_AUDIO]", "(silence)", etc.
// Artifacts are stripped from anywhere in the text, not just as exact
// full-string matches.
func cleanTranscription(s string) string {
	// Normalize newlines and collapse whitespace.
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)

	// Junk patterns to strip from anywhere in the text.
	junkPatterns := []string{
		"[BLANK_AUDIO]",
		"[BLANK AUDIO]",
		"(silence)",
		"[silence]",
		"(no speech)",
		"[no speech]",
		"[Music]",
		"(music)",
		"(keyboard clicking)",
		"(typing)",
		"(clicking)",
		"(breathing)",
		"(sighing)",
		"(coughing)",
		"(laughing)",
		"(footsteps)",
		"(water running)",
		"(static)",
		"(background noise)",
		"(inaudible)",
		"(unintelligible)",
		"(beeping)",
	}
	for _, j := range junkPatterns {
		s = strings.ReplaceAll(s, j, "")
		s = strings.ReplaceAll(s, strings.ToLower(j), "")
		s = strings.ReplaceAll(s, strings.ToUpper(j), "")
	}

	// Collapse any whitespace created by removals.
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	s = strings.TrimSpace(s)

	// Catch-all: strip any remaining (parenthesized) or [bracketed]
	// environmental annotations whisper may produce.
	s = envAnnotation.ReplaceAllString(s, "")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	s = strings.TrimSpace(s)

	// If what remains is just a known hallucination, discard entirely.
	hallucinations := []string{
		"...",
		"you",
		"Thank you.",
		"Thanks for watching!",
		"Thank you for watching.",
		"Bye.",
		"Bye!",
		"The end.",
		"Sous-titres réalisés para la communauté d'Amara.org",
	}
	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if strings.ToLower(h) == lower {
			return ""
		}
	}

	// Strip whisper timestamp prefixes like "[00:00:00.000 --> 00:00:05.000]"
	if strings.HasPrefix(s, "[") {
		if idx := strings.Index(s, "]"); idx != -1 && idx < 40 {
			rest := strings.TrimSpace(s[idx+1:])
			if rest != "" {
				return rest
			}
		}
	}

	return s
}
