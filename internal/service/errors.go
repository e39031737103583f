package service

import "errors"

// Engine error taxonomy. Handlers match these with errors.Is and map them
// to HTTP codes; the recoverable ones are normal displayable states for
// clients, not failures.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAchievementNotFound  = errors.New("achievement not found")
	ErrInvalidDelta         = errors.New("invalid xp delta")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInsufficientEnergy   = errors.New("insufficient energy")
	ErrStreakSaverExhausted = errors.New("streak savers exhausted")
	ErrConditionsNotMet     = errors.New("conditions not met")
)
