package mission

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid mission configuration")
	ErrMissionFull          = errors.New("all generals have already reported for duty")
	ErrRoundMismatch        = errors.New("call does not belong to the current round")
	ErrCommanderWithdrawn   = errors.New("commander only takes part in round 0 sending")
	ErrUnknownGeneral       = errors.New("general is not registered")
)

// ConfigurationError is returned by New when m < 0 or n <= 3m.
type ConfigurationError struct {
	N int
	M int
}

func (e *ConfigurationError) Error() string {
	if e.M < 0 {
		return fmt.Sprintf("fault bound must not be negative, got m=%d", e.M)
	}
	return fmt.Sprintf("requires n > 3*m, got n=%d m=%d", e.N, e.M)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
