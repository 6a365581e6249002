package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: no proposal with the requested ID.
	ErrNotFound = errors.New("proposal not found")

	// ErrDuplicateVote: the voter already holds a ballot on this proposal.
	ErrDuplicateVote = errors.New("duplicate vote")

	// ErrVotingClosed: the proposal is not accepting ballots. Post-closure
	// ballots are refused here so they can never reach a tally.
	ErrVotingClosed = errors.New("voting closed")

	// ErrDataUnavailable wraps store failures. Callers degrade to a
	// labeled empty state instead of showing stale numbers.
	ErrDataUnavailable = errors.New("data unavailable")
)

// ValidationError rejects a proposal draft field before anything is
// written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
}
