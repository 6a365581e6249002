package webserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusimpact/govdash/src/api/data"
	"github.com/campusimpact/govdash/src/api/gateway"
	"github.com/campusimpact/govdash/src/gov"
)

type Treasury struct {
	gw       *gateway.Gateway
	settings data.Settings
}

func NewTreasury(gw *gateway.Gateway, settings data.Settings) Treasury {
	return Treasury{gw: gw, settings: settings}
}

type allocationView struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Percent  int     `json:"percentage"`
}

type transactionView struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	ProposalID string    `json:"proposalId"`
	Amount     float64   `json:"amount"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	TxHash     string    `json:"txHash"`
}

func (t Treasury) Summary(c *gin.Context) {
	total, err := t.settings.GetFloat(data.SettingTreasuryBalance)
	if err != nil {
		log.Printf("treasury: balance setting unavailable: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "data unavailable"})
		return
	}

	view, err := t.gw.Treasury(c, total, 25)
	if err != nil {
		abortGatewayErr(c, err)
		return
	}

	prefix, err := t.settings.Get(data.SettingCurrencyPrefix)
	if err != nil {
		log.Printf("treasury: currency prefix setting unavailable: %v", err)
	}
	allocs := make([]allocationView, 0, len(view.Allocations))
	for _, a := range view.Allocations {
		allocs = append(allocs, allocationView{Category: a.Category, Amount: a.Amount, Percent: a.Percent})
	}
	txs := make([]transactionView, 0, len(view.Transactions))
	for _, tx := range view.Transactions {
		txs = append(txs, transactionView{
			ID:         tx.ID,
			Date:       tx.Date,
			ProposalID: tx.ProposalID,
			Amount:     tx.Amount,
			Type:       tx.Type,
			Status:     tx.Status,
			TxHash:     tx.TxHash,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"totalBalance":        view.Summary.TotalBalance,
		"lockedBalance":       view.Summary.LockedBalance,
		"availableBalance":    view.Summary.AvailableBalance,
		"totalAllocated":      view.Summary.TotalAllocated,
		"totalDisbursed":      view.Summary.TotalDisbursed,
		"totalReturned":       view.Summary.TotalReturned,
		"totalBalanceDisplay": gov.FormatCurrency(view.Summary.TotalBalance, prefix),
		"allocations":         allocs,
		"transactions":        txs,
	})
}
