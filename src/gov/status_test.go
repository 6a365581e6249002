package gov

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	evalStart = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	evalEnd   = evalStart.Add(VotingWindow)
)

func activeProposal(yes, no, quorum int) EvalInput {
	return EvalInput{
		Status:         StatusActive,
		Yes:            yes,
		No:             no,
		QuorumRequired: quorum,
		StartDate:      evalStart,
		EndDate:        evalEnd,
	}
}

func TestEvaluate_ResolvesPassedAtClose(t *testing.T) {
	// Quorum 7500 met (9760 voters) and yes > no.
	in := activeProposal(8420, 1340, 7500)
	got, err := Evaluate(in, evalEnd)
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, got)
}

func TestEvaluate_ResolvesRejectedWhenNoLeads(t *testing.T) {
	// Quorum met (11300 >= 7500) but no > yes.
	in := activeProposal(3200, 8100, 7500)
	got, err := Evaluate(in, evalEnd.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got)
}

func TestEvaluate_ResolvesRejectedBelowQuorum(t *testing.T) {
	// 4000 voters below quorum 7500: rejected regardless of the split.
	in := activeProposal(3900, 100, 7500)
	got, err := Evaluate(in, evalEnd)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got)
}

func TestEvaluate_TieRejects(t *testing.T) {
	in := activeProposal(5000, 5000, 7500)
	got, err := Evaluate(in, evalEnd)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got)
}

func TestEvaluate_ActiveBeforeClose(t *testing.T) {
	in := activeProposal(8420, 1340, 7500)
	got, err := Evaluate(in, evalEnd.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, got)
}

func TestEvaluate_PassthroughStates(t *testing.T) {
	for _, st := range []Status{StatusPending, StatusPassed, StatusRejected, StatusExecuted} {
		in := activeProposal(1, 0, 10)
		in.Status = st
		got, err := Evaluate(in, evalEnd.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, st, got, "status %s must pass through", st)
	}
}

func TestEvaluate_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EvalInput)
	}{
		{"end before start", func(in *EvalInput) { in.EndDate = in.StartDate.Add(-time.Hour) }},
		{"end equals start", func(in *EvalInput) { in.EndDate = in.StartDate }},
		{"zero quorum", func(in *EvalInput) { in.QuorumRequired = 0 }},
		{"negative quorum", func(in *EvalInput) { in.QuorumRequired = -5 }},
		{"negative yes count", func(in *EvalInput) { in.Yes = -1 }},
		{"unknown status", func(in *EvalInput) { in.Status = "limbo" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := activeProposal(10, 5, 100)
			tt.mutate(&in)
			_, err := Evaluate(in, evalEnd)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestQuorumPercent(t *testing.T) {
	assert.Equal(t, 0, QuorumPercent(0, 7500))
	assert.Equal(t, 50, QuorumPercent(3750, 7500))
	assert.Equal(t, 100, QuorumPercent(7500, 7500))
	// Capped at 100 once quorum is exceeded.
	assert.Equal(t, 100, QuorumPercent(9760, 7500))
	// Defensive zeros rather than a divide-by-zero.
	assert.Equal(t, 0, QuorumPercent(100, 0))
}

func TestQuorumPercent_Monotone(t *testing.T) {
	prev := 0
	for voters := 0; voters <= 200; voters += 7 {
		pct := QuorumPercent(voters, 120)
		assert.GreaterOrEqual(t, pct, prev)
		assert.LessOrEqual(t, pct, 100)
		prev = pct
	}
}

func TestVotingOpen(t *testing.T) {
	in := activeProposal(0, 0, 100)

	assert.True(t, VotingOpen(in, evalStart))
	assert.True(t, VotingOpen(in, evalEnd.Add(-time.Second)))
	assert.False(t, VotingOpen(in, evalStart.Add(-time.Second)))
	assert.False(t, VotingOpen(in, evalEnd))

	in.Status = StatusPending
	assert.False(t, VotingOpen(in, evalStart))
}

func TestTimeLeft(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		want string
	}{
		{"days remaining", now.Add(49*time.Hour + 10*time.Minute), "2d 1h left"},
		{"hours remaining", now.Add(5*time.Hour + 30*time.Minute), "5h 30m left"},
		{"minutes remaining", now.Add(12 * time.Minute), "12m left"},
		{"exactly now", now, "Ended"},
		{"already over", now.Add(-time.Hour), "Ended"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeLeft(tt.end, now))
		})
	}
}
