package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campusimpact/govdash/src/api/types"
	"github.com/campusimpact/govdash/src/gov"
)

func testGateway(t *testing.T) (*Gateway, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&types.Proposal{}, &types.Milestone{},
		&types.Vote{}, &types.Transaction{}, &types.Setting{},
	))
	return New(db), db
}

func testDraft() ProposalDraft {
	return ProposalDraft{
		Title:            "AgroSync",
		Description:      "Edge AI for crop telemetry",
		Category:         "AgriTech",
		ProposerName:     "A. Sharma",
		ProposerAddress:  "0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9f0e",
		FundingRequested: 18.5,
		FundingToken:     "USDC",
		QuorumRequired:   3,
		Tags:             []string{"AI/ML", "AgriTech"},
		Milestones: []MilestoneDraft{
			{Title: "Pilot", FundAllocation: 40},
			{Title: "Rollout", FundAllocation: 60},
		},
	}
}

func voteCount(t *testing.T, db *gorm.DB, proposalID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&types.Vote{}).Where("proposal_id = ?", proposalID).Count(&n).Error)
	return n
}

func TestGateway_InsertProposalRoundTrip(t *testing.T) {
	gw, _ := testGateway(t)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	gw.now = func() time.Time { return start }

	id, err := gw.InsertProposal(context.Background(), testDraft())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	p, err := gw.GetProposal(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, gov.StatusPending, p.Status)
	assert.Equal(t, gov.VotingWindow, p.EndDate.Sub(p.StartDate))
	assert.Equal(t, []string{"AI/ML", "AgriTech"}, p.Tags)
	require.Len(t, p.Milestones, 2)
}

func TestGateway_InsertProposalSanitizesContent(t *testing.T) {
	gw, _ := testGateway(t)

	draft := testDraft()
	draft.Description = `<p>Legit pitch</p><script>alert("x")</script>`
	id, err := gw.InsertProposal(context.Background(), draft)
	require.NoError(t, err)

	p, err := gw.GetProposal(context.Background(), id)
	require.NoError(t, err)
	assert.NotContains(t, p.Description, "<script>")
	assert.Contains(t, p.Description, "Legit pitch")
}

func TestGateway_InsertVoteLifecycle(t *testing.T) {
	gw, db := testGateway(t)
	clock := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	gw.now = func() time.Time { return clock }

	ctx := context.Background()
	id, err := gw.InsertProposal(ctx, testDraft())
	require.NoError(t, err)

	// Fresh rows are pending: not open for voting yet.
	err = gw.InsertVote(ctx, id, "0xvoter1", gov.ChoiceYes)
	assert.ErrorIs(t, err, ErrVotingClosed)
	assert.EqualValues(t, 0, voteCount(t, db, id))

	// External review admits the proposal into its window.
	require.NoError(t, db.Model(&types.Proposal{}).Where("id = ?", id).
		Update("status", string(gov.StatusActive)).Error)

	clock = clock.Add(time.Hour)
	require.NoError(t, gw.InsertVote(ctx, id, "0xvoter1", gov.ChoiceYes))
	require.NoError(t, gw.InsertVote(ctx, id, "0xvoter2", gov.ChoiceNo))

	// Second ballot from the same voter is refused, not merged.
	err = gw.InsertVote(ctx, id, "0xvoter1", gov.ChoiceNo)
	assert.ErrorIs(t, err, ErrDuplicateVote)
	assert.EqualValues(t, 2, voteCount(t, db, id))

	tally, err := gw.TallyProposal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Yes)
	assert.Equal(t, 1, tally.No)

	// Past the window: ballots are refused at the gateway, so a tally
	// can never include them.
	clock = clock.Add(gov.VotingWindow)
	err = gw.InsertVote(ctx, id, "0xvoter3", gov.ChoiceYes)
	assert.ErrorIs(t, err, ErrVotingClosed)
	assert.EqualValues(t, 2, voteCount(t, db, id))

	err = gw.InsertVote(ctx, "no-such-id", "0xvoter1", gov.ChoiceYes)
	assert.ErrorIs(t, err, ErrNotFound)

	err = gw.InsertVote(ctx, id, "0xvoter1", "abstain")
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGateway_ListQuarantinesInvalidRows(t *testing.T) {
	gw, db := testGateway(t)

	ctx := context.Background()
	_, err := gw.InsertProposal(ctx, testDraft())
	require.NoError(t, err)

	// A broken row straight in the store: no quorum, garbage status.
	bad := types.Proposal{
		ID:              "prop-bad",
		Title:           "Broken",
		ProposerAddress: "0xbad",
		Status:          "draft",
		StartDate:       time.Now(),
		EndDate:         time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&bad).Error)

	proposals, err := gw.ListProposals(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, "AgroSync", proposals[0].Title)
}
