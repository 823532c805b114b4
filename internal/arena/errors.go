package arena

import "errors"

var (
	// ErrNotReset is returned when an environment is stepped before Reset.
	ErrNotReset = errors.New("environment not reset")

	// ErrRoundOver is returned when an environment is stepped after the
	// round already finished.
	ErrRoundOver = errors.New("round already over")

	// ErrEnvClosed is returned by operations on a closed environment.
	ErrEnvClosed = errors.New("environment closed")

	// ErrTooFewParticipants is returned by a series with fewer than two
	// entrants.
	ErrTooFewParticipants = errors.New("series needs at least two participants")
)
