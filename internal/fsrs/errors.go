package fsrs

import "errors"

// ErrInvalidFormat marks a malformed timestamp or an out-of-vocabulary
// rating/state string encountered while decoding a Card or ReviewLog.
var ErrInvalidFormat = errors.New("fsrs: invalid format")

// ErrContractViolation marks a programmer error. NewScheduler reports it at
// construction time for a parameter vector of the wrong length, a desired
// retention outside (0,1), a step table with a non-positive entry, a
// non-positive maximum interval, or a missing RandSource; ReviewCard
// reports it for a rating outside Again..Easy.
var ErrContractViolation = errors.New("fsrs: contract violation")
