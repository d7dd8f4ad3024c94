package game

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidState         = errors.New("invalid state")
	ErrDuplicatePlayer      = errors.New("player already seated")
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrInvalidSelection     = errors.New("invalid selection")
)

// Уточнения: errors.Is по-прежнему совпадает с корневой категорией.
var (
	ErrPaused           = fmt.Errorf("%w: game is paused", ErrInvalidState)
	ErrNotPaused        = fmt.Errorf("%w: game is not paused", ErrInvalidState)
	ErrNotEnoughPlayers = fmt.Errorf("%w: not enough players", ErrInvalidState)
	ErrJudgeCannotPlay  = fmt.Errorf("%w: the judge does not play", ErrInvalidState)
	ErrAlreadyPlayed    = fmt.Errorf("%w: already played this round", ErrInvalidState)
	ErrNotJudge         = fmt.Errorf("%w: only the judge picks the winner", ErrInvalidState)
	ErrInvalidCards     = fmt.Errorf("%w: wrong cards", ErrInvalidSelection)
)

func stateErr(action string, s State) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidState, action, s)
}
