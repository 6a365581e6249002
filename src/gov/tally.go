package gov

import (
	"math"
	"sort"
)

// TallyResult holds yes/no totals for one proposal. YesPercent and
// NoPercent round independently (half up), so they may sum to 99 or 101;
// that is expected, not a bug. Both are 0 when Total is 0.
type TallyResult struct {
	Yes        int
	No         int
	Total      int
	YesPercent int
	NoPercent  int
}

// Dedupe keeps the earliest ballot per voter and drops the rest. Later
// ballots from the same voter are discarded, not merged. The sort is
// stable, so ballots with identical timestamps keep their input order.
// The input slice is not modified.
func Dedupe(ballots []Ballot) []Ballot {
	if len(ballots) < 2 {
		return ballots
	}
	sorted := make([]Ballot, len(ballots))
	copy(sorted, ballots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	seen := make(map[string]struct{}, len(sorted))
	out := sorted[:0]
	for _, b := range sorted {
		if _, dup := seen[b.Voter]; dup {
			continue
		}
		seen[b.Voter] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Tally counts ballots for a single proposal. The input is assumed to be
// one ballot per voter (the gateway enforces that); callers holding a raw
// stream should run Dedupe first.
func Tally(ballots []Ballot) TallyResult {
	var r TallyResult
	for _, b := range ballots {
		switch b.Choice {
		case ChoiceYes:
			r.Yes++
		case ChoiceNo:
			r.No++
		}
	}
	r.Total = r.Yes + r.No
	if r.Total == 0 {
		return r
	}
	r.YesPercent = roundPercent(r.Yes, r.Total)
	r.NoPercent = roundPercent(r.No, r.Total)
	return r
}

// roundPercent is round-half-up of 100*part/total.
func roundPercent(part, total int) int {
	return int(math.Floor(100*float64(part)/float64(total) + 0.5))
}
