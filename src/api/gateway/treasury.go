package gateway

import (
	"context"
	"log"

	"github.com/campusimpact/govdash/src/api/types"
	"github.com/campusimpact/govdash/src/gov"
)

// TreasuryView is the rolled-up treasury state served to the dashboard.
type TreasuryView struct {
	Summary      gov.Summary
	Allocations  []gov.Allocation
	Transactions []gov.Transaction
}

// Treasury rolls the transaction log into balances and per-category
// shares. totalBalance comes from settings; initial funding never appears
// in the log, so it cannot be derived here.
func (g *Gateway) Treasury(ctx context.Context, totalBalance float64, txLimit int) (TreasuryView, error) {
	var rows []types.Transaction
	if err := g.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return TreasuryView{}, unavailable(err)
	}

	txs := make([]gov.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := mapTransaction(row)
		if err != nil {
			log.Printf("gateway: quarantined transaction %s: %v", row.ID, err)
			continue
		}
		txs = append(txs, tx)
	}

	statuses, err := g.proposalStatuses(ctx, txs)
	if err != nil {
		return TreasuryView{}, err
	}
	locked := gov.LockedFromLog(txs, func(id string) gov.Status { return statuses[id] })

	byCategory, err := g.allocationByCategory(ctx)
	if err != nil {
		return TreasuryView{}, err
	}

	view := TreasuryView{
		Summary:      gov.Summarize(txs, totalBalance, locked),
		Allocations:  gov.AllocationShares(byCategory),
		Transactions: txs,
	}
	if txLimit > 0 && len(view.Transactions) > txLimit {
		view.Transactions = view.Transactions[:txLimit]
	}
	return view, nil
}

// proposalStatuses resolves the status of every proposal referenced by
// the log. Unknown proposals stay absent, which LockedFromLog treats as
// still committed.
func (g *Gateway) proposalStatuses(ctx context.Context, txs []gov.Transaction) (map[string]gov.Status, error) {
	ids := make([]string, 0, len(txs))
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx.ProposalID == "" {
			continue
		}
		if _, ok := seen[tx.ProposalID]; ok {
			continue
		}
		seen[tx.ProposalID] = struct{}{}
		ids = append(ids, tx.ProposalID)
	}
	if len(ids) == 0 {
		return map[string]gov.Status{}, nil
	}

	type pair struct {
		ID     string
		Status string
	}
	var rows []pair
	err := g.db.WithContext(ctx).Model(&types.Proposal{}).
		Select("id, status").Where("id IN ?", ids).Scan(&rows).Error
	if err != nil {
		return nil, unavailable(err)
	}

	out := make(map[string]gov.Status, len(rows))
	for _, r := range rows {
		out[r.ID] = gov.Status(r.Status)
	}
	return out, nil
}

// allocationByCategory sums confirmed allocation amounts per proposal
// category.
func (g *Gateway) allocationByCategory(ctx context.Context) (map[string]float64, error) {
	type agg struct {
		Category string
		Amount   float64
	}
	var rows []agg
	err := g.db.WithContext(ctx).Table("transactions").
		Select("proposals.category as category, sum(transactions.amount) as amount").
		Joins("JOIN proposals ON proposals.id = transactions.proposal_id").
		Where("transactions.type = ? AND transactions.status = ?", gov.TxAllocation, gov.TxConfirmed).
		Group("proposals.category").
		Scan(&rows).Error
	if err != nil {
		return nil, unavailable(err)
	}

	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Category] = r.Amount
	}
	return out, nil
}
