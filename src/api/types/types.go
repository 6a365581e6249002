package types

import "time"

// Proposals under community vote
type Proposal struct {
	ID                 string `gorm:"primaryKey;size:36"`
	Title              string `gorm:"size:255;not null"`
	Description        string `gorm:"type:text"`
	Category           string `gorm:"size:64;index"`
	ProposerName       string `gorm:"size:128"`
	ProposerUniversity string `gorm:"size:128"`
	ProposerAddress    string `gorm:"size:128;index;not null"`
	FundingRequested   float64
	FundingToken       string `gorm:"size:16"`
	Status             string `gorm:"size:32;index;not null"`
	StartDate          time.Time
	EndDate            time.Time
	QuorumRequired     int
	Tags               string `gorm:"size:512"` // comma separated
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Milestones         []Milestone `gorm:"foreignKey:ProposalID"`
	Votes              []Vote      `gorm:"foreignKey:ProposalID"`
}

// Funding tranches tied to deliverables
type Milestone struct {
	ID             string  `gorm:"primaryKey;size:36"`
	ProposalID     string  `gorm:"size:36;index;not null"`
	Title          string  `gorm:"size:255;not null"`
	Description    string  `gorm:"type:text"`
	FundAllocation float64 // percentage of the proposal's funding
	Completed      bool    `gorm:"default:false"`
	DueDate        time.Time
	Proposal       Proposal `gorm:"foreignKey:ProposalID"`
}

// One ballot per (proposal, voter); the unique index is the authority on
// the one-ballot-per-voter invariant.
type Vote struct {
	ID           string `gorm:"primaryKey;size:36"`
	ProposalID   string `gorm:"size:36;not null;uniqueIndex:idx_votes_proposal_voter"`
	VoterAddress string `gorm:"size:128;not null;uniqueIndex:idx_votes_proposal_voter"`
	Choice       string `gorm:"size:8;not null"` // yes|no
	CreatedAt    time.Time
	Proposal     Proposal `gorm:"foreignKey:ProposalID"`
}

// Treasury ledger entries
type Transaction struct {
	ID         string `gorm:"primaryKey;size:36"`
	Date       time.Time
	ProposalID string `gorm:"size:36;index"`
	Amount     float64
	Type       string `gorm:"size:16;not null"` // allocation|disbursement|return
	Status     string `gorm:"size:16;not null"` // confirmed|pending|failed
	TxHash     string `gorm:"size:128"`
	CreatedAt  time.Time
	Proposal   Proposal `gorm:"foreignKey:ProposalID"`
}

// Settings stored in the database (treasury total balance, token info)
type Setting struct {
	ID     uint8  `gorm:"primaryKey"`
	Name   string `gorm:"size:64;unique;not null"`
	Value  string `gorm:"type:text;not null"`
	Active uint8  `gorm:"not null;default:1"`
}
