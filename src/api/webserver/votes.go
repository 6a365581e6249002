package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campusimpact/govdash/src/api/data"
	"github.com/campusimpact/govdash/src/api/gateway"
	"github.com/campusimpact/govdash/src/gov"
)

type Votes struct {
	gw  *gateway.Gateway
	rdb *redis.Client
}

func NewVotes(gw *gateway.Gateway, rdb *redis.Client) Votes {
	return Votes{gw: gw, rdb: rdb}
}

func (v Votes) Cast(c *gin.Context) {
	var req struct {
		ProposalID string `json:"proposalId" binding:"required"`
		Choice     string `json:"choice" binding:"required,oneof=yes no"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	voter := c.GetString("addr")
	if err := v.gw.InsertVote(c, req.ProposalID, voter, gov.Choice(req.Choice)); err != nil {
		abortGatewayErr(c, err)
		return
	}

	_ = data.PublishEvent(c, v.rdb, map[string]interface{}{
		"event":    "vote_cast",
		"proposal": req.ProposalID,
		"voter":    voter,
		"choice":   req.Choice,
		"time":     time.Now().Unix(),
	})

	c.Status(http.StatusCreated)
}

func (v Votes) Summary(c *gin.Context) {
	id := c.Param("id")
	p, err := v.gw.GetProposal(c, id)
	if err != nil {
		abortGatewayErr(c, err)
		return
	}

	tally, err := v.gw.TallyProposal(c, id)
	if err != nil {
		abortGatewayErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposalId":    id,
		"yes":           tally.Yes,
		"no":            tally.No,
		"total":         tally.Total,
		"yesPercent":    tally.YesPercent,
		"noPercent":     tally.NoPercent,
		"quorumPercent": gov.QuorumPercent(tally.Total, p.QuorumRequired),
	})
}
