// Package schedule holds the normalized event shape every feed client
// produces, plus the identity rules used to merge events across feeds.
package schedule

import (
	"sort"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusFinished  = "FINISHED"
)

// Event is a normalized upstream schedule entry. Used for merging and
// sorting only, never persisted.
type Event struct {
	SourceID    string
	Title       string
	StartsAt    time.Time
	HomeTeam    string
	AwayTeam    string
	Location    string
	Broadcaster string
	Result      string
	Status      string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	switch status {
	case StatusFinished, "FT", "FINAL":
		return StatusFinished
	default:
		return StatusScheduled
	}
}

// clubPrefixes are ranking-irrelevant tokens feeds disagree on
// ("FC Bayern" vs "Bayern", "1. FC Köln" vs "FC Köln").
var clubPrefixes = []string{"1. ", "fc ", "afc ", "sc ", "sv ", "vfl ", "vfb ", "tsg ", "bsc "}

// NormalizeTeamName lowers, trims and strips common club prefix tokens so the
// same club spelled differently by two feeds compares equal.
func NormalizeTeamName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range clubPrefixes {
			if strings.HasPrefix(normalized, prefix) {
				normalized = strings.TrimSpace(strings.TrimPrefix(normalized, prefix))
				stripped = true
			}
		}
	}
	return normalized
}

// DedupeKey identifies one match across feeds: the calendar day plus the
// normalized team pair in canonical order, so swapped home/away still match.
func (e Event) DedupeKey() string {
	teams := []string{NormalizeTeamName(e.HomeTeam), NormalizeTeamName(e.AwayTeam)}
	sort.Strings(teams)
	return e.StartsAt.UTC().Format("2006-01-02") + ":" + teams[0] + ":" + teams[1]
}

// Merge deduplicates events from several feeds and orders them by start time.
// The first event seen for a key wins; later duplicates are dropped.
func Merge(batches ...[]Event) []Event {
	seen := make(map[string]struct{})
	merged := make([]Event, 0, 64)
	for _, batch := range batches {
		for _, e := range batch {
			key := e.DedupeKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, e)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartsAt.Before(merged[j].StartsAt)
	})

	return merged
}
