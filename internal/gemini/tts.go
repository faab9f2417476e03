package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// SynthesizeSpeech converts text to raw audio: 16-bit signed PCM, mono,
// 24 kHz — exactly what the oto player is configured for, no container
// to unwrap. An empty response yields (nil, nil); the speech layer skips
// the line.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}

	resp, err := c.generate(ctx, ttsModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: c.voice,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: synthesizing speech: %w", err)
	}

	pcm := audioData(resp)
	if len(pcm) == 0 {
		c.log.Warn("gemini: TTS returned no audio for %q", truncate(text, 60))
		return nil, nil
	}

	c.log.Debug("gemini: synthesized %d bytes for %q", len(pcm), truncate(text, 60))
	return pcm, nil
}

// audioData finds the first inline audio blob in a response.
func audioData(resp *genai.GenerateContentResponse) []byte {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
