package gamemode

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks fatal configuration and environment errors.
	ErrConfiguration     = errors.New("gamemode configuration error")
	ErrInvalidHealthMode = fmt.Errorf("%w: invalid titan health mode", ErrConfiguration)
	ErrMissingTagged     = fmt.Errorf("%w: required level object missing", ErrConfiguration)
	ErrNoSpawnPoints     = fmt.Errorf("%w: no titan spawn points", ErrConfiguration)

	ErrNotAuthority  = errors.New("operation requires session authority")
	ErrAuthoritative = errors.New("session authority ignores mirrored round state")
	ErrPhase         = errors.New("operation not valid in current round phase")
)
