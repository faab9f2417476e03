package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrNoIngredients    = errors.New("no ingredients to cook with")
	ErrNoActiveRecipe   = errors.New("no active recipe")
	ErrNoSession        = errors.New("no cooking session in progress")
	ErrTimerActive      = errors.New("a timer is already running")
	ErrSubstitutionBusy = errors.New("a substitution request is already pending")
	ErrUnavailable      = errors.New("capability unavailable")
)
