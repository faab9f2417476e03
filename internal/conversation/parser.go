// Package conversation interprets natural language heard (or typed) during
// a cooking session: hands-free commands and spoken durations.
package conversation

import (
	"strings"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// VoiceParser matches transcribed utterances to session commands using
// substring containment. Recognition output is noisy ("uh, next step
// please"), so containment beats exact matching here.
type VoiceParser struct {
	log   *logger.Logger
	rules []voiceRule
}

type voiceRule struct {
	phrases []string
	intent  domain.IntentType
}

// NewVoiceParser creates the utterance parser. Rule order is the priority
// order: the first rule with any phrase contained in the utterance wins.
func NewVoiceParser(log *logger.Logger) *VoiceParser {
	return &VoiceParser{
		log: log,
		rules: []voiceRule{
			{[]string{"next"}, domain.IntentNextStep},
			{[]string{"back", "previous"}, domain.IntentPreviousStep},
			{[]string{"start timer", "begin timer"}, domain.IntentStartTimer},
		},
	}
}

// Parse converts an utterance into an intent. Unmatched input yields
// IntentNone; the caller ignores it rather than bothering the user.
// stepText is the instruction currently on screen: a timer command takes
// its duration from there, and Seconds stays 0 when none is found.
func (p *VoiceParser) Parse(utterance, stepText string) domain.Intent {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	if lower == "" {
		return domain.Intent{Type: domain.IntentNone}
	}

	for _, rule := range p.rules {
		for _, phrase := range rule.phrases {
			if !strings.Contains(lower, phrase) {
				continue
			}
			p.log.Debug("utterance %q matched %s", lower, rule.intent)
			intent := domain.Intent{Type: rule.intent}
			if rule.intent == domain.IntentStartTimer {
				intent.Seconds = DetectDurationSeconds(stepText)
			}
			return intent
		}
	}

	p.log.Debug("utterance %q matched nothing", lower)
	return domain.Intent{Type: domain.IntentNone}
}
