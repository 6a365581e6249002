package gov

import "sort"

// Summary is the rolled-up view of the treasury ledger. TotalBalance is
// supplied by the caller; initial treasury funding never appears in the
// transaction log, so the total is not derivable from it.
type Summary struct {
	TotalBalance     float64
	LockedBalance    float64
	AvailableBalance float64
	TotalAllocated   float64
	TotalDisbursed   float64
	TotalReturned    float64
}

// Allocation is one category's share of allocated funds. Percent rounds
// half up; shares across categories may not sum to exactly 100.
type Allocation struct {
	Category string
	Amount   float64
	Percent  int
}

// Summarize reduces a transaction log into aggregate balances.
// AvailableBalance = totalBalance - lockedBalance.
func Summarize(txs []Transaction, totalBalance, lockedBalance float64) Summary {
	s := Summary{
		TotalBalance:     totalBalance,
		LockedBalance:    lockedBalance,
		AvailableBalance: totalBalance - lockedBalance,
	}
	for _, tx := range txs {
		switch tx.Type {
		case TxAllocation:
			s.TotalAllocated += tx.Amount
		case TxDisbursement:
			s.TotalDisbursed += tx.Amount
		case TxReturn:
			s.TotalReturned += tx.Amount
		}
	}
	return s
}

// LockedFromLog sums confirmed allocation amounts for proposals that are
// still committed, i.e. not yet executed or rejected. statusOf resolves a
// proposal ID to its current status; unknown proposals count as locked.
func LockedFromLog(txs []Transaction, statusOf func(proposalID string) Status) float64 {
	var locked float64
	for _, tx := range txs {
		if tx.Type != TxAllocation || tx.Status != TxConfirmed {
			continue
		}
		if st := statusOf(tx.ProposalID); st == StatusExecuted || st == StatusRejected {
			continue
		}
		locked += tx.Amount
	}
	return locked
}

// AllocationShares turns per-category allocation totals into percentage
// shares, ordered by amount descending then category name. An empty map
// yields an empty slice; percentages are 0 when the grand total is 0.
func AllocationShares(amountByCategory map[string]float64) []Allocation {
	if len(amountByCategory) == 0 {
		return nil
	}
	var total float64
	out := make([]Allocation, 0, len(amountByCategory))
	for cat, amt := range amountByCategory {
		total += amt
		out = append(out, Allocation{Category: cat, Amount: amt})
	}
	if total > 0 {
		for i := range out {
			out[i].Percent = int(100*out[i].Amount/total + 0.5)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}
