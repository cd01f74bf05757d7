package schedule

import (
	"testing"
	"time"
)

func TestNormalizeTeamName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"FC Bayern":      "bayern",
		" 1. FC Köln ":   "köln",
		"AFC Sunderland": "sunderland",
		"Borussia":       "borussia",
		"1. FSV Mainz":   "fsv mainz",
	}
	for in, want := range cases {
		if got := NormalizeTeamName(in); got != want {
			t.Fatalf("NormalizeTeamName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDedupeKey_SwappedTeamsMatch(t *testing.T) {
	t.Parallel()

	day := time.Date(2023, 1, 10, 15, 30, 0, 0, time.UTC)
	a := Event{HomeTeam: "Team A", AwayTeam: "Team B", StartsAt: day}
	b := Event{HomeTeam: "Team B", AwayTeam: "Team A", StartsAt: day.Add(2 * time.Hour)}

	if a.DedupeKey() != b.DedupeKey() {
		t.Fatalf("swapped pair keys differ: %q vs %q", a.DedupeKey(), b.DedupeKey())
	}
}

func TestMerge_FirstSeenWinsAndSorted(t *testing.T) {
	t.Parallel()

	day := time.Date(2023, 1, 10, 15, 30, 0, 0, time.UTC)
	sourceOne := []Event{
		{SourceID: "one-1", HomeTeam: "FC A", AwayTeam: "B", StartsAt: day, Status: StatusScheduled},
	}
	sourceTwo := []Event{
		{SourceID: "two-1", HomeTeam: "A", AwayTeam: "1. B", StartsAt: day, Status: StatusScheduled},
		{SourceID: "two-2", HomeTeam: "C", AwayTeam: "D", StartsAt: day.Add(72 * time.Hour), Status: StatusScheduled},
	}

	merged := Merge(sourceOne, sourceTwo)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged events, got %d", len(merged))
	}
	if merged[0].SourceID != "one-1" {
		t.Fatalf("first-seen event must win, got %+v", merged[0])
	}
	if !merged[0].StartsAt.Before(merged[1].StartsAt) {
		t.Fatalf("merged events not in ascending start order: %+v", merged)
	}
}

func TestMerge_KeepsDistinctDays(t *testing.T) {
	t.Parallel()

	day := time.Date(2023, 1, 10, 15, 30, 0, 0, time.UTC)
	first := []Event{{HomeTeam: "A", AwayTeam: "B", StartsAt: day}}
	second := []Event{{HomeTeam: "A", AwayTeam: "B", StartsAt: day.AddDate(0, 0, 7)}}

	if merged := Merge(first, second); len(merged) != 2 {
		t.Fatalf("same pairing on different days must not dedupe, got %d", len(merged))
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	for _, finished := range []string{"finished", "FT", "Final"} {
		if got := NormalizeStatus(finished); got != StatusFinished {
			t.Fatalf("NormalizeStatus(%q) = %q", finished, got)
		}
	}
	if got := NormalizeStatus(""); got != StatusScheduled {
		t.Fatalf("empty status must default to scheduled, got %q", got)
	}
}
