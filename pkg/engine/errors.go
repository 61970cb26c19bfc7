package engine

import (
	"errors"
	"fmt"
)

// Every error returned by an Engine operation wraps one of these kinds.
// A rejected operation leaves the match state untouched.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidPhase = errors.New("invalid phase")
)

var (
	ErrInvalidChoice    = fmt.Errorf("%w: ball choice must be between %d and %d", ErrInvalidInput, MinChoice, MaxChoice)
	ErrInvalidRole      = fmt.Errorf("%w: role must be team1 or team2", ErrInvalidInput)
	ErrInvalidDecision  = fmt.Errorf("%w: decision must be bat or bowl", ErrInvalidInput)
	ErrUnknownTeam      = fmt.Errorf("%w: unknown team", ErrInvalidInput)
	ErrSameTeam         = fmt.Errorf("%w: team1 and team2 must differ", ErrInvalidInput)
	ErrSelectionSize    = fmt.Errorf("%w: wrong number of players", ErrInvalidInput)
	ErrDuplicatePlayer  = fmt.Errorf("%w: player selected twice", ErrInvalidInput)
	ErrIneligiblePlayer = fmt.Errorf("%w: player not eligible", ErrInvalidInput)

	ErrWrongPhase       = fmt.Errorf("%w: operation not allowed in this phase", ErrInvalidPhase)
	ErrTeamsIncomplete  = fmt.Errorf("%w: both teams must be selected", ErrInvalidPhase)
	ErrTossNotRun       = fmt.Errorf("%w: toss has not been run", ErrInvalidPhase)
	ErrTossDone         = fmt.Errorf("%w: toss already decided", ErrInvalidPhase)
	ErrNoSelection      = fmt.Errorf("%w: no player selection pending", ErrInvalidPhase)
	ErrSelectionPending = fmt.Errorf("%w: player selection pending", ErrInvalidPhase)
	ErrPlayersNotSet    = fmt.Errorf("%w: batsmen and bowler must be set", ErrInvalidPhase)
	ErrBallInProgress   = fmt.Errorf("%w: ball already in progress", ErrInvalidPhase)
)
