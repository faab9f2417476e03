package main

import (
	"context"
	"testing"

	"souschef/internal/conversation"
	"souschef/internal/domain"
	"souschef/internal/engine"
	"souschef/internal/logger"
	"souschef/internal/speech"
)

func testRecipe() *domain.Recipe {
	return &domain.Recipe{
		Title:        "Toast",
		Ingredients:  []domain.IngredientRef{{Name: "bread"}},
		Instructions: []string{"Stir the sauce until glossy."},
	}
}

func TestDropSessionReleasesVoiceStream(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	a := &cliApp{
		log: log,
		ear: speech.NewEar("no-such-whisper", "no-such-model.bin", nil, log),
	}
	a.setSession(engine.NewSession(testRecipe(), log))
	a.earOn = true // as after a successful voice toggle

	a.dropSession()

	if a.earOn {
		t.Error("voice stream still flagged on after session drop")
	}
	if a.currentSession() != nil {
		t.Error("session survived drop")
	}
}

func TestVoiceTimerWithoutDurationDropped(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	sess := engine.NewSession(testRecipe(), log)
	sess.ToggleVoice()

	// ui and speaker stay nil: if the utterance made it past the duration
	// gate, the echo and interrupt calls would panic here.
	a := &cliApp{log: log, parser: conversation.NewVoiceParser(log)}
	a.setSession(sess)

	a.handleUtterance(context.Background(), "start timer")

	if snap := sess.Snapshot(); snap.Timer != nil {
		t.Errorf("timer started from a duration-less step: %+v", snap.Timer)
	}
}
