package webserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campusimpact/govdash/src/api/data"
	"github.com/campusimpact/govdash/src/api/discord"
	"github.com/campusimpact/govdash/src/api/gateway"
	"github.com/campusimpact/govdash/src/gov"
)

type Proposals struct {
	gw        *gateway.Gateway
	rdb       *redis.Client
	announcer *discord.Announcer
}

func NewProposals(gw *gateway.Gateway, rdb *redis.Client, announcer *discord.Announcer) Proposals {
	return Proposals{gw: gw, rdb: rdb, announcer: announcer}
}

type proposerView struct {
	Name       string `json:"name"`
	University string `json:"university"`
	Address    string `json:"address"`
}

type milestoneView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	FundAllocation float64   `json:"fundAllocation"`
	Completed      bool      `json:"completed"`
	DueDate        time.Time `json:"dueDate"`
}

// proposalView is the dashboard's wire shape. Status is the stored value;
// EffectiveStatus is what the evaluator says it should be right now, so a
// row the reconciler has not caught up with yet never shows a stale
// "active".
type proposalView struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Proposer         proposerView    `json:"proposer"`
	FundingRequested float64         `json:"fundingRequested"`
	FundingToken     string          `json:"fundingToken"`
	Status           string          `json:"status"`
	EffectiveStatus  string          `json:"effectiveStatus"`
	VotesYes         int             `json:"votesYes"`
	VotesNo          int             `json:"votesNo"`
	TotalVoters      int             `json:"totalVoters"`
	YesPercent       int             `json:"yesPercent"`
	NoPercent        int             `json:"noPercent"`
	QuorumRequired   int             `json:"quorumRequired"`
	QuorumPercent    int             `json:"quorumPercent"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	TimeLeft         string          `json:"timeLeft"`
	VotingOpen       bool            `json:"votingOpen"`
	Milestones       []milestoneView `json:"milestones"`
	Tags             []string        `json:"tags"`
}

func buildView(p gov.Proposal, tally gov.TallyResult, now time.Time) (proposalView, error) {
	in := gov.EvalInput{
		Status:         p.Status,
		Yes:            tally.Yes,
		No:             tally.No,
		QuorumRequired: p.QuorumRequired,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
	}
	effective, err := gov.Evaluate(in, now)
	if err != nil {
		return proposalView{}, err
	}

	v := proposalView{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Category:         p.Category,
		Proposer:         proposerView{Name: p.Proposer.Name, University: p.Proposer.University, Address: p.Proposer.Address},
		FundingRequested: p.FundingRequested,
		FundingToken:     p.FundingToken,
		Status:           string(p.Status),
		EffectiveStatus:  string(effective),
		VotesYes:         tally.Yes,
		VotesNo:          tally.No,
		TotalVoters:      tally.Total,
		YesPercent:       tally.YesPercent,
		NoPercent:        tally.NoPercent,
		QuorumRequired:   p.QuorumRequired,
		QuorumPercent:    gov.QuorumPercent(tally.Total, p.QuorumRequired),
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		TimeLeft:         gov.TimeLeft(p.EndDate, now),
		VotingOpen:       gov.VotingOpen(in, now),
		Tags:             p.Tags,
	}
	for _, m := range p.Milestones {
		v.Milestones = append(v.Milestones, milestoneView{
			ID:             m.ID,
			Title:          m.Title,
			Description:    m.Description,
			FundAllocation: m.FundAllocation,
			Completed:      m.Completed,
			DueDate:        m.DueDate,
		})
	}
	return v, nil
}

func (h Proposals) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	proposals, err := h.gw.ListProposals(c, gateway.ListFilter{NewestFirst: true, Limit: limit})
	if err != nil {
		abortGatewayErr(c, err)
		return
	}

	now := time.Now()
	out := make([]proposalView, 0, len(proposals))
	for _, p := range proposals {
		tally, err := h.gw.TallyProposal(c, p.ID)
		if err != nil {
			abortGatewayErr(c, err)
			return
		}
		view, err := buildView(p, tally, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
			return
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"proposals": out})
}

func (h Proposals) Get(c *gin.Context) {
	p, err := h.gw.GetProposal(c, c.Param("id"))
	if err != nil {
		abortGatewayErr(c, err)
		return
	}
	tally, err := h.gw.TallyProposal(c, p.ID)
	if err != nil {
		abortGatewayErr(c, err)
		return
	}
	view, err := buildView(p, tally, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h Proposals) Submit(c *gin.Context) {
	var req struct {
		Title            string   `json:"title" binding:"required"`
		Description      string   `json:"description"`
		Category         string   `json:"category"`
		ProposerName     string   `json:"proposerName"`
		University       string   `json:"university"`
		FundingRequested float64  `json:"fundingRequested"`
		FundingToken     string   `json:"fundingToken"`
		QuorumRequired   int      `json:"quorumRequired" binding:"required"`
		Tags             []string `json:"tags"`
		Milestones       []struct {
			Title          string    `json:"title"`
			Description    string    `json:"description"`
			FundAllocation float64   `json:"fundAllocation"`
			DueDate        time.Time `json:"dueDate"`
		} `json:"milestones"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	draft := gateway.ProposalDraft{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		ProposerName:       req.ProposerName,
		ProposerUniversity: req.University,
		ProposerAddress:    c.GetString("addr"),
		FundingRequested:   req.FundingRequested,
		FundingToken:       req.FundingToken,
		QuorumRequired:     req.QuorumRequired,
		Tags:               req.Tags,
	}
	for _, m := range req.Milestones {
		draft.Milestones = append(draft.Milestones, gateway.MilestoneDraft{
			Title:          m.Title,
			Description:    m.Description,
			FundAllocation: m.FundAllocation,
			DueDate:        m.DueDate,
		})
	}

	id, err := h.gw.InsertProposal(c, draft)
	if err != nil {
		abortGatewayErr(c, err)
		return
	}

	_ = data.PublishEvent(c, h.rdb, map[string]interface{}{
		"event":    "proposal_submitted",
		"proposal": id,
		"author":   draft.ProposerAddress,
		"time":     time.Now().Unix(),
	})
	if p, err := h.gw.GetProposal(c, id); err == nil {
		h.announcer.AnnounceSubmitted(p)
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// abortGatewayErr maps gateway errors onto HTTP statuses.
func abortGatewayErr(c *gin.Context, err error) {
	var verr gateway.ValidationError
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
	case errors.Is(err, gateway.ErrDuplicateVote):
		c.JSON(http.StatusConflict, gin.H{"err": "already voted on this proposal"})
	case errors.Is(err, gateway.ErrVotingClosed):
		c.JSON(http.StatusConflict, gin.H{"err": "voting closed"})
	case errors.Is(err, gateway.ErrDataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"err": "data unavailable"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"err": verr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
