package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/campusimpact/govdash/src/api/types"
	"github.com/campusimpact/govdash/src/gov"
)

// Gateway is the data access layer the core consumes. It owns boundary
// validation: rows coming out of MySQL are mapped into gov values, and
// rows failing required-field checks are quarantined (skipped and logged)
// rather than passed through with zero-value sentinels.
type Gateway struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

func New(db *gorm.DB) *Gateway {
	// Strict sanitizer for proposer-supplied markdown content.
	sanitizer := bluemonday.StrictPolicy()
	sanitizer.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	sanitizer.AllowElements("ul", "ol", "li")
	sanitizer.AllowAttrs("href").OnElements("a")
	sanitizer.RequireParseableURLs(true)

	return &Gateway{db: db, sanitizer: sanitizer, now: time.Now}
}

// ListFilter narrows ListProposals. Zero value means every proposal in
// insertion order.
type ListFilter struct {
	NewestFirst bool
	Limit       int
}

func (g *Gateway) ListProposals(ctx context.Context, f ListFilter) ([]gov.Proposal, error) {
	q := g.db.WithContext(ctx).Preload("Milestones")
	if f.NewestFirst {
		q = q.Order("created_at DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []types.Proposal
	if err := q.Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}

	out := make([]gov.Proposal, 0, len(rows))
	quarantined := 0
	for _, row := range rows {
		p, err := mapProposal(row)
		if err != nil {
			quarantined++
			log.Printf("gateway: quarantined proposal %s: %v", row.ID, err)
			continue
		}
		out = append(out, p)
	}
	if quarantined > 0 {
		log.Printf("gateway: %d proposal rows quarantined", quarantined)
	}
	return out, nil
}

func (g *Gateway) GetProposal(ctx context.Context, id string) (gov.Proposal, error) {
	var row types.Proposal
	err := g.db.WithContext(ctx).Preload("Milestones").First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gov.Proposal{}, ErrNotFound
	}
	if err != nil {
		return gov.Proposal{}, unavailable(err)
	}
	return mapProposal(row)
}

// ListVotes returns ballots for one proposal, created_at descending. The
// unique index on (proposal_id, voter_address) keeps the set one ballot
// per voter already.
func (g *Gateway) ListVotes(ctx context.Context, proposalID string, limit int) ([]gov.Ballot, error) {
	q := g.db.WithContext(ctx).Where("proposal_id = ?", proposalID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []types.Vote
	if err := q.Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}

	out := make([]gov.Ballot, 0, len(rows))
	for _, row := range rows {
		out = append(out, gov.Ballot{
			ID:         row.ID,
			ProposalID: row.ProposalID,
			Voter:      row.VoterAddress,
			Choice:     gov.Choice(row.Choice),
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

// TallyProposal loads a proposal's ballots and tallies them.
func (g *Gateway) TallyProposal(ctx context.Context, proposalID string) (gov.TallyResult, error) {
	ballots, err := g.ListVotes(ctx, proposalID, 0)
	if err != nil {
		return gov.TallyResult{}, err
	}
	return gov.Tally(gov.Dedupe(ballots)), nil
}

// MilestoneDraft is one tranche on a submission.
type MilestoneDraft struct {
	Title          string
	Description    string
	FundAllocation float64
	DueDate        time.Time
}

// ProposalDraft is the submission flow's input. Status is never caller
// supplied: fresh rows are always pending, and the voting window is fixed
// at gov.VotingWindow from the start date.
type ProposalDraft struct {
	Title              string
	Description        string
	Category           string
	ProposerName       string
	ProposerUniversity string
	ProposerAddress    string
	FundingRequested   float64
	FundingToken       string
	QuorumRequired     int
	Milestones         []MilestoneDraft
	Tags               []string
}

func (d ProposalDraft) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(d.ProposerAddress) == "" {
		return ValidationError{Field: "proposerAddress", Reason: "required"}
	}
	if d.FundingRequested < 0 {
		return ValidationError{Field: "fundingRequested", Reason: "must not be negative"}
	}
	if d.QuorumRequired <= 0 {
		return ValidationError{Field: "quorumRequired", Reason: "must be positive"}
	}
	for i, m := range d.Milestones {
		if m.FundAllocation < 0 || m.FundAllocation > 100 {
			return ValidationError{Field: "milestones", Reason: fmt.Sprintf("fund allocation outside [0,100] at index %d", i)}
		}
	}
	return nil
}

func (g *Gateway) InsertProposal(ctx context.Context, d ProposalDraft) (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}

	start := g.now().UTC()
	row := types.Proposal{
		ID:                 uuid.NewString(),
		Title:              g.sanitizer.Sanitize(d.Title),
		Description:        g.sanitizer.Sanitize(d.Description),
		Category:           d.Category,
		ProposerName:       d.ProposerName,
		ProposerUniversity: d.ProposerUniversity,
		ProposerAddress:    d.ProposerAddress,
		FundingRequested:   d.FundingRequested,
		FundingToken:       d.FundingToken,
		Status:             string(gov.StatusPending),
		StartDate:          start,
		EndDate:            start.Add(gov.VotingWindow),
		QuorumRequired:     d.QuorumRequired,
		Tags:               strings.Join(d.Tags, ","),
	}
	for _, m := range d.Milestones {
		row.Milestones = append(row.Milestones, types.Milestone{
			ID:             uuid.NewString(),
			ProposalID:     row.ID,
			Title:          g.sanitizer.Sanitize(m.Title),
			Description:    g.sanitizer.Sanitize(m.Description),
			FundAllocation: m.FundAllocation,
			DueDate:        m.DueDate,
		})
	}

	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", unavailable(err)
	}
	return row.ID, nil
}

// InsertVote stores one ballot. It enforces the two gateway invariants:
// voting must be open (active status, now within the window) and a voter
// gets one ballot per proposal. The unique index backs the duplicate
// check against concurrent casts.
func (g *Gateway) InsertVote(ctx context.Context, proposalID, voter string, choice gov.Choice) error {
	if !choice.IsValid() {
		return ValidationError{Field: "choice", Reason: "must be yes or no"}
	}

	var row types.Proposal
	err := g.db.WithContext(ctx).First(&row, "id = ?", proposalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return unavailable(err)
	}

	in := gov.EvalInput{
		Status:         gov.Status(row.Status),
		QuorumRequired: row.QuorumRequired,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
	}
	if !gov.VotingOpen(in, g.now()) {
		return ErrVotingClosed
	}

	var existing int64
	err = g.db.WithContext(ctx).Model(&types.Vote{}).
		Where("proposal_id = ? AND voter_address = ?", proposalID, voter).
		Count(&existing).Error
	if err != nil {
		return unavailable(err)
	}
	if existing > 0 {
		return ErrDuplicateVote
	}

	vote := types.Vote{
		ID:           uuid.NewString(),
		ProposalID:   proposalID,
		VoterAddress: voter,
		Choice:       string(choice),
		CreatedAt:    g.now().UTC(),
	}
	err = g.db.WithContext(ctx).Create(&vote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateEntry(err) {
		return ErrDuplicateVote
	}
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// isDuplicateEntry catches unique-index violations the driver did not
// translate (MySQL 1062, sqlite UNIQUE constraint).
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
