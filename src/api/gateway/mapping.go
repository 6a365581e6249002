package gateway

import (
	"fmt"
	"strings"

	"github.com/campusimpact/govdash/src/api/types"
	"github.com/campusimpact/govdash/src/gov"
)

// mapProposal converts a storage row into the core's view. A row missing
// required fields or carrying an impossible window is an error; the
// caller decides whether that means quarantine (lists) or failure (gets).
func mapProposal(row types.Proposal) (gov.Proposal, error) {
	if row.ID == "" {
		return gov.Proposal{}, fmt.Errorf("missing id")
	}
	if row.Title == "" {
		return gov.Proposal{}, fmt.Errorf("missing title")
	}
	if row.ProposerAddress == "" {
		return gov.Proposal{}, fmt.Errorf("missing proposer address")
	}
	status := gov.Status(row.Status)
	if !status.IsValid() {
		return gov.Proposal{}, fmt.Errorf("unknown status %q", row.Status)
	}
	if !row.EndDate.After(row.StartDate) {
		return gov.Proposal{}, fmt.Errorf("end date not after start date")
	}
	if row.QuorumRequired <= 0 {
		return gov.Proposal{}, fmt.Errorf("non-positive quorum")
	}
	if row.FundingRequested < 0 {
		return gov.Proposal{}, fmt.Errorf("negative funding amount")
	}

	p := gov.Proposal{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category,
		Proposer: gov.Proposer{
			Name:       row.ProposerName,
			University: row.ProposerUniversity,
			Address:    row.ProposerAddress,
		},
		FundingRequested: row.FundingRequested,
		FundingToken:     row.FundingToken,
		Status:           status,
		StartDate:        row.StartDate,
		EndDate:          row.EndDate,
		QuorumRequired:   row.QuorumRequired,
		Tags:             splitTags(row.Tags),
	}
	for _, m := range row.Milestones {
		p.Milestones = append(p.Milestones, gov.Milestone{
			ID:             m.ID,
			Title:          m.Title,
			Description:    m.Description,
			FundAllocation: m.FundAllocation,
			Completed:      m.Completed,
			DueDate:        m.DueDate,
		})
	}
	return p, nil
}

func mapTransaction(row types.Transaction) (gov.Transaction, error) {
	if row.ID == "" {
		return gov.Transaction{}, fmt.Errorf("missing id")
	}
	switch row.Type {
	case gov.TxAllocation, gov.TxDisbursement, gov.TxReturn:
	default:
		return gov.Transaction{}, fmt.Errorf("unknown type %q", row.Type)
	}
	switch row.Status {
	case gov.TxConfirmed, gov.TxPending, gov.TxFailed:
	default:
		return gov.Transaction{}, fmt.Errorf("unknown status %q", row.Status)
	}
	if row.Amount < 0 {
		return gov.Transaction{}, fmt.Errorf("negative amount")
	}
	return gov.Transaction{
		ID:         row.ID,
		Date:       row.Date,
		ProposalID: row.ProposalID,
		Amount:     row.Amount,
		Type:       row.Type,
		Status:     row.Status,
		TxHash:     row.TxHash,
	}, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := parts[:0]
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
