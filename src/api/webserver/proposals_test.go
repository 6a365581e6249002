package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusimpact/govdash/src/api/gateway"
	"github.com/campusimpact/govdash/src/gov"
)

func sampleProposal(status gov.Status) gov.Proposal {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return gov.Proposal{
		ID:             "prop-001",
		Title:          "AgroSync",
		Category:       "AgriTech",
		Proposer:       gov.Proposer{Name: "A. Sharma", Address: "0xabc"},
		Status:         status,
		StartDate:      start,
		EndDate:        start.Add(gov.VotingWindow),
		QuorumRequired: 7500,
	}
}

func TestBuildView_StaleActiveShowsResolvedStatus(t *testing.T) {
	p := sampleProposal(gov.StatusActive)
	tally := gov.TallyResult{Yes: 8420, No: 1340, Total: 9760, YesPercent: 86, NoPercent: 14}

	// A day past the window with the store still saying active.
	now := p.EndDate.Add(24 * time.Hour)
	v, err := buildView(p, tally, now)
	require.NoError(t, err)

	assert.Equal(t, "active", v.Status)
	assert.Equal(t, "passed", v.EffectiveStatus)
	assert.Equal(t, "Ended", v.TimeLeft)
	assert.False(t, v.VotingOpen)
	assert.Equal(t, 100, v.QuorumPercent)
}

func TestBuildView_ActiveMidWindow(t *testing.T) {
	p := sampleProposal(gov.StatusActive)
	now := p.StartDate.Add(24 * time.Hour)

	v, err := buildView(p, gov.TallyResult{Yes: 30, No: 10, Total: 40, YesPercent: 75, NoPercent: 25}, now)
	require.NoError(t, err)

	assert.Equal(t, "active", v.Status)
	assert.Equal(t, "active", v.EffectiveStatus)
	assert.True(t, v.VotingOpen)
	assert.Equal(t, "13d 0h left", v.TimeLeft)
	assert.Equal(t, 1, v.QuorumPercent) // 40 of 7500, rounded up from 0.53
}

func TestBuildView_InvalidWindowFails(t *testing.T) {
	p := sampleProposal(gov.StatusActive)
	p.EndDate = p.StartDate

	_, err := buildView(p, gov.TallyResult{}, p.StartDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, gov.ErrInvalidConfig)
}

func TestAbortGatewayErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", gateway.ErrNotFound, http.StatusNotFound},
		{"duplicate vote", gateway.ErrDuplicateVote, http.StatusConflict},
		{"voting closed", gateway.ErrVotingClosed, http.StatusConflict},
		{"store down", gateway.ErrDataUnavailable, http.StatusServiceUnavailable},
		{"bad draft", gateway.ValidationError{Field: "title", Reason: "required"}, http.StatusBadRequest},
		{"anything else", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			abortGatewayErr(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), "err")
		})
	}
}
