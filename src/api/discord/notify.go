package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/campusimpact/govdash/src/gov"
)

// Announcer posts proposal lifecycle events to the community channel. A
// nil Announcer is a no-op so the service runs without Discord
// credentials.
type Announcer struct {
	session   *discordgo.Session
	channelID string
}

// NewAnnouncer opens a Discord session. Empty token or channel disables
// announcements.
func NewAnnouncer(token, channelID string) (*Announcer, error) {
	if token == "" || channelID == "" {
		return nil, nil
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("discord open: %w", err)
	}
	return &Announcer{session: session, channelID: channelID}, nil
}

func (a *Announcer) Close() {
	if a == nil {
		return
	}
	_ = a.session.Close()
}

// AnnounceResolved posts the outcome of a closed proposal with its final
// tally.
func (a *Announcer) AnnounceResolved(p gov.Proposal, tally gov.TallyResult, resolved gov.Status) {
	if a == nil {
		return
	}
	var verdict string
	switch resolved {
	case gov.StatusPassed:
		verdict = "✅ passed"
	case gov.StatusRejected:
		verdict = "❌ rejected"
	default:
		verdict = string(resolved)
	}
	msg := fmt.Sprintf("Voting closed on **%s** — %s. Yes %d (%d%%), No %d (%d%%), quorum %d%%.",
		p.Title, verdict, tally.Yes, tally.YesPercent, tally.No, tally.NoPercent,
		gov.QuorumPercent(tally.Total, p.QuorumRequired))
	a.send(msg)
}

// AnnounceSubmitted posts a freshly submitted proposal.
func (a *Announcer) AnnounceSubmitted(p gov.Proposal) {
	if a == nil {
		return
	}
	a.send(fmt.Sprintf("New proposal **%s** by %s requests %s %s. Voting ends %s.",
		p.Title, gov.FormatAddress(p.Proposer.Address),
		gov.FormatCurrency(p.FundingRequested, ""), p.FundingToken,
		gov.FormatDate(p.EndDate)))
}

func (a *Announcer) send(content string) {
	if _, err := a.session.ChannelMessageSend(a.channelID, content); err != nil {
		log.Printf("discord: send failed: %v", err)
	}
}
