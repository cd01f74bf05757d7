// Package highscore ranks group members by their accumulated tip points.
package highscore

import (
	"sort"

	"github.com/fbet-app/fbet/internal/domain/member"
	"github.com/fbet-app/fbet/internal/domain/tip"
)

// Entry is one leaderboard row. Derived on demand, never stored.
type Entry struct {
	UserID int64
	Name   string
	Points int
}

// Compute builds the ranked leaderboard for one group. The tips must already
// be scoped to the group's events by the caller; membership of individual tip
// rows is not re-checked here. Every member appears exactly once, including
// members without a single tip. The leaderboard ranks people, not tip rows.
//
// Order: points descending, then resolved name ascending (byte-wise compare).
func Compute(members []member.Member, tips []tip.Record) []Entry {
	if len(members) == 0 {
		return []Entry{}
	}

	pointsByUser := make(map[int64]int, len(members))
	for _, t := range tips {
		pointsByUser[t.UserID] += t.Points
	}

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		entries = append(entries, Entry{
			UserID: m.ID,
			Name:   m.ResolveName(),
			Points: pointsByUser[m.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}

// Leaders returns the user IDs tied for first place. An empty board, or a
// board whose best score is zero, has no leaders.
func Leaders(entries []Entry) []int64 {
	if len(entries) == 0 {
		return nil
	}

	best := entries[0].Points
	for _, e := range entries[1:] {
		if e.Points > best {
			best = e.Points
		}
	}
	if best <= 0 {
		return nil
	}

	leaders := make([]int64, 0, 2)
	for _, e := range entries {
		if e.Points == best {
			leaders = append(leaders, e.UserID)
		}
	}
	return leaders
}
