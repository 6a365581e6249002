package reconciler

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/campusimpact/govdash/src/api/data"
	"github.com/campusimpact/govdash/src/api/discord"
	"github.com/campusimpact/govdash/src/api/gateway"
	"github.com/campusimpact/govdash/src/api/types"
	"github.com/campusimpact/govdash/src/gov"
)

// Reconciler resolves proposals whose voting window has closed. The
// stored status is whatever the store last saw; this job is what turns an
// expired "active" into "passed" or "rejected". The passed→executed
// transition stays with the external disbursement action.
type Reconciler struct {
	db        *gorm.DB
	gw        *gateway.Gateway
	rdb       *redis.Client
	announcer *discord.Announcer
}

func New(db *gorm.DB, gw *gateway.Gateway, rdb *redis.Client, announcer *discord.Announcer) *Reconciler {
	return &Reconciler{db: db, gw: gw, rdb: rdb, announcer: announcer}
}

// Start runs the reconcile loop until ctx is cancelled. One pass runs
// immediately so a restart never leaves expired proposals dangling for a
// full interval.
func (r *Reconciler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("reconciler: stopping")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reconciler) runOnce(ctx context.Context) {
	now := time.Now()

	var expired []types.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date <= ?", string(gov.StatusActive), now).
		Find(&expired).Error
	if err != nil {
		log.Printf("reconciler: load expired proposals: %v", err)
		return
	}
	if len(expired) == 0 {
		return
	}
	log.Printf("reconciler: %d proposals past their voting window", len(expired))

	for _, row := range expired {
		if err := r.resolve(ctx, row, now); err != nil {
			log.Printf("reconciler: proposal %s: %v", row.ID, err)
		}
	}
}

func (r *Reconciler) resolve(ctx context.Context, row types.Proposal, now time.Time) error {
	tally, err := r.gw.TallyProposal(ctx, row.ID)
	if err != nil {
		return err
	}

	in := gov.EvalInput{
		Status:         gov.Status(row.Status),
		Yes:            tally.Yes,
		No:             tally.No,
		QuorumRequired: row.QuorumRequired,
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
	}
	resolved, err := gov.Evaluate(in, now)
	if err != nil {
		// Bad window or quorum: leave the row alone, it needs operator
		// attention rather than a fabricated outcome.
		return err
	}
	if resolved == gov.StatusActive {
		return nil
	}

	// Guard on the old status so a concurrent pass flips each proposal
	// exactly once.
	res := r.db.WithContext(ctx).Model(&types.Proposal{}).
		Where("id = ? AND status = ?", row.ID, string(gov.StatusActive)).
		Update("status", string(resolved))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	log.Printf("reconciler: proposal %s resolved %s (yes=%d no=%d quorum=%d)",
		row.ID, resolved, tally.Yes, tally.No, row.QuorumRequired)

	_ = data.PublishEvent(ctx, r.rdb, map[string]interface{}{
		"event":    "proposal_resolved",
		"proposal": row.ID,
		"status":   string(resolved),
		"yes":      tally.Yes,
		"no":       tally.No,
		"time":     now.Unix(),
	})

	p, err := r.gw.GetProposal(ctx, row.ID)
	if err == nil {
		r.announcer.AnnounceResolved(p, tally, resolved)
	}
	return nil
}
