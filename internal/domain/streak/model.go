// Package streak tracks contiguous intervals of leaderboard first place.
package streak

import (
	"time"

	"github.com/fbet-app/fbet/internal/domain/highscore"
)

// Streak is one leadership interval. EndedOn == nil marks an active streak.
// Several streaks may be active at once when users are tied for first place.
type Streak struct {
	ID             int64
	GroupID        int64
	UserID         int64
	BecameLeaderOn time.Time
	EndedOn        *time.Time
}

// Delta is the set of changes one snapshot produces against the currently
// active streaks. Persisting it is the caller's job.
type Delta struct {
	ToClose  []Streak
	ToCreate []int64
}

func (d Delta) Empty() bool {
	return len(d.ToClose) == 0 && len(d.ToCreate) == 0
}

// Diff compares the current leader set against the active streaks and returns
// what must be closed and created so the streak history stays gapless.
//
// Re-running Diff with the same snapshot after the delta has been applied
// yields an empty delta.
func Diff(entries []highscore.Entry, active []Streak, now time.Time) Delta {
	leaderSet := make(map[int64]struct{})
	for _, userID := range highscore.Leaders(entries) {
		leaderSet[userID] = struct{}{}
	}

	var delta Delta
	activeSet := make(map[int64]struct{}, len(active))
	for _, s := range active {
		if s.EndedOn != nil {
			continue
		}
		activeSet[s.UserID] = struct{}{}
		if _, leads := leaderSet[s.UserID]; !leads {
			ended := now
			closed := s
			closed.EndedOn = &ended
			delta.ToClose = append(delta.ToClose, closed)
		}
	}

	for _, e := range entries {
		if _, leads := leaderSet[e.UserID]; !leads {
			continue
		}
		if _, tracked := activeSet[e.UserID]; tracked {
			continue
		}
		delta.ToCreate = append(delta.ToCreate, e.UserID)
	}

	return delta
}
