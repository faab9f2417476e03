package speech

import (
	"strings"
	"testing"
	"time"

	"souschef/internal/logger"
)

func testLog() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}

func TestAudioCacheMemoryAndDisk(t *testing.T) {
	dir := t.TempDir()
	c := NewAudioCache("Kore", dir, true, testLog())

	if _, ok := c.Get("hello"); ok {
		t.Error("empty cache reported a hit")
	}

	audio := []byte{1, 2, 3, 4}
	c.Put("hello", audio)

	got, ok := c.Get("hello")
	if !ok || len(got) != 4 {
		t.Fatalf("Get after Put = %v, %v", got, ok)
	}

	// A fresh cache over the same directory reads the disk entry.
	c2 := NewAudioCache("Kore", dir, true, testLog())
	if got, ok := c2.Get("hello"); !ok || len(got) != 4 {
		t.Errorf("disk layer miss: %v, %v", got, ok)
	}

	// A different voice keys differently.
	c3 := NewAudioCache("Puck", dir, true, testLog())
	if _, ok := c3.Get("hello"); ok {
		t.Error("voice change still hit the old entry")
	}
}

func TestAudioCacheReadOnlyDisk(t *testing.T) {
	dir := t.TempDir()

	warm := NewAudioCache("Kore", dir, true, testLog())
	warm.Put("greeting", []byte{9, 9})

	// diskWrite=false still reads existing entries but persists nothing new.
	c := NewAudioCache("Kore", dir, false, testLog())
	if _, ok := c.Get("greeting"); !ok {
		t.Error("read-only cache ignored existing disk entry")
	}
	c.Put("new line", []byte{1})

	fresh := NewAudioCache("Kore", dir, false, testLog())
	if _, ok := fresh.Get("new line"); ok {
		t.Error("read-only cache persisted a new entry")
	}
}

func TestSplitChunksRespectsSentences(t *testing.T) {
	m := &Mouth{chunkSize: 40}

	text := "First sentence here. Second sentence follows. Third one closes it out."
	chunks := m.splitChunks(text)
	if len(chunks) < 2 {
		t.Fatalf("long text stayed in %d chunk(s)", len(chunks))
	}
	for _, c := range chunks {
		if !strings.HasSuffix(c, ".") {
			t.Errorf("chunk %q does not end at a sentence boundary", c)
		}
	}
	if joined := strings.Join(chunks, " "); joined != text {
		t.Errorf("chunks lost content:\n got %q\nwant %q", joined, text)
	}

	short := &Mouth{chunkSize: 200}
	if got := short.splitChunks("Short."); len(got) != 1 || got[0] != "Short." {
		t.Errorf("short text chunked: %v", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three?")
	if len(got) != 3 {
		t.Fatalf("got %d sentences: %v", len(got), got)
	}
	if strings.TrimSpace(got[1]) != "Two!" {
		t.Errorf("second sentence = %q", got[1])
	}
}

func TestCleanTranscription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "next step please", "next step please"},
		{"blank audio", "[BLANK_AUDIO]", ""},
		{"embedded junk", "start timer (keyboard clicking) now", "start timer now"},
		{"annotation catch-all", "(dog barking) go back", "go back"},
		{"hallucination", "Thank you.", ""},
		{"timestamp prefix", "[00:00:00.000 --> 00:00:03.000] next", "next"},
		{"newlines collapse", "start\nthe timer", "start the timer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanTranscription(tt.in); got != tt.want {
				t.Errorf("cleanTranscription(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanForSpeech(t *testing.T) {
	in := "\x1b[33m[Timer]\x1b[0m Time's up on step 3."
	if got := cleanForSpeech(in); got != "Time's up on step 3." {
		t.Errorf("cleanForSpeech = %q", got)
	}
}

func TestFormatDurationSpeech(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45 seconds"},
		{time.Minute, "1 minute"},
		{10 * time.Minute, "10 minutes"},
		{90 * time.Second, "1 minutes 30 seconds"},
	}
	for _, tt := range tests {
		if got := FormatDurationSpeech(tt.d); got != tt.want {
			t.Errorf("FormatDurationSpeech(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
