package gov

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig marks a proposal whose time window or quorum makes any
// evaluation meaningless. It is never coerced into a default result.
var ErrInvalidConfig = errors.New("invalid proposal configuration")

// EvalInput is everything the evaluator needs about one proposal.
type EvalInput struct {
	Status         Status
	Yes            int
	No             int
	QuorumRequired int
	StartDate      time.Time
	EndDate        time.Time
}

func (in EvalInput) check() error {
	if !in.EndDate.After(in.StartDate) {
		return fmt.Errorf("%w: end date %s not after start date %s",
			ErrInvalidConfig, in.EndDate.Format(time.RFC3339), in.StartDate.Format(time.RFC3339))
	}
	if in.QuorumRequired <= 0 {
		return fmt.Errorf("%w: quorum required %d", ErrInvalidConfig, in.QuorumRequired)
	}
	if in.Yes < 0 || in.No < 0 {
		return fmt.Errorf("%w: negative vote count", ErrInvalidConfig)
	}
	return nil
}

// QuorumPercent reports voting participation as a percentage of the
// required quorum, rounded half up and capped at 100.
func QuorumPercent(totalVoters, quorumRequired int) int {
	if quorumRequired <= 0 || totalVoters <= 0 {
		return 0
	}
	pct := roundPercent(totalVoters, quorumRequired)
	if pct > 100 {
		return 100
	}
	return pct
}

// Evaluate answers what a proposal's status should be at the given time.
// It never mutates anything; persisting a resolved status is the
// reconciler's job. The rules:
//
//	pending   -> pending (admission into voting is an external review step)
//	active    -> active while now < EndDate
//	active    -> passed at/after EndDate when quorum is met and yes > no
//	active    -> rejected at/after EndDate otherwise
//	passed, rejected, executed -> unchanged
func Evaluate(in EvalInput, now time.Time) (Status, error) {
	if err := in.check(); err != nil {
		return "", err
	}
	if !in.Status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidConfig, in.Status)
	}
	if in.Status != StatusActive || now.Before(in.EndDate) {
		return in.Status, nil
	}
	total := in.Yes + in.No
	if total >= in.QuorumRequired && in.Yes > in.No {
		return StatusPassed, nil
	}
	return StatusRejected, nil
}

// VotingOpen reports whether a ballot may be cast: the proposal is active
// and now falls within [StartDate, EndDate).
func VotingOpen(in EvalInput, now time.Time) bool {
	if in.Status != StatusActive {
		return false
	}
	return !now.Before(in.StartDate) && now.Before(in.EndDate)
}

// TimeLeft renders the remaining voting window as "2d 5h left",
// "5h 30m left", "12m left" or "Ended". Deterministic given both
// timestamps.
func TimeLeft(end, now time.Time) string {
	diff := end.Sub(now)
	if diff <= 0 {
		return "Ended"
	}
	days := int(diff / (24 * time.Hour))
	hours := int(diff % (24 * time.Hour) / time.Hour)
	minutes := int(diff % time.Hour / time.Minute)

	if days > 0 {
		return fmt.Sprintf("%dd %dh left", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm left", hours, minutes)
	}
	return fmt.Sprintf("%dm left", minutes)
}
