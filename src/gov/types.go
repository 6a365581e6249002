package gov

import "time"

// VotingWindow is the fixed length of a proposal's voting period. A
// proposal's EndDate is always StartDate + VotingWindow.
const VotingWindow = 14 * 24 * time.Hour

// Status is a proposal's lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusPassed   Status = "passed"
	StatusRejected Status = "rejected"
	StatusExecuted Status = "executed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusPassed, StatusRejected, StatusExecuted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusExecuted
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusActive:
		return "Active"
	case StatusPassed:
		return "Passed"
	case StatusRejected:
		return "Rejected"
	case StatusExecuted:
		return "Executed"
	}
	return string(s)
}

// Choice is a single ballot's answer.
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

func (c Choice) IsValid() bool { return c == ChoiceYes || c == ChoiceNo }

// Ballot is one voter's choice on one proposal.
type Ballot struct {
	ID         string
	ProposalID string
	Voter      string // opaque wallet address
	Choice     Choice
	CreatedAt  time.Time
}

// Proposer identifies who submitted a proposal.
type Proposer struct {
	Name       string
	University string
	Address    string
}

// Milestone is a tranche of a proposal's funding tied to a deliverable.
// FundAllocation is a percentage of the requested funding in [0,100].
type Milestone struct {
	ID             string
	Title          string
	Description    string
	FundAllocation float64
	Completed      bool
	DueDate        time.Time
}

// Proposal is the core's read-only view of a funding request. All fields
// come from the data store; the core never mutates them.
type Proposal struct {
	ID               string
	Title            string
	Description      string
	Category         string
	Proposer         Proposer
	FundingRequested float64
	FundingToken     string
	Status           Status
	StartDate        time.Time
	EndDate          time.Time
	QuorumRequired   int
	Milestones       []Milestone
	Tags             []string
}

// Transaction types and statuses on the treasury ledger.
const (
	TxAllocation   = "allocation"
	TxDisbursement = "disbursement"
	TxReturn       = "return"

	TxConfirmed = "confirmed"
	TxPending   = "pending"
	TxFailed    = "failed"
)

// Transaction is one entry in the treasury ledger. TxHash is an opaque
// reference to an external ledger and is not validated here.
type Transaction struct {
	ID         string
	Date       time.Time
	ProposalID string
	Amount     float64
	Type       string
	Status     string
	TxHash     string
}
