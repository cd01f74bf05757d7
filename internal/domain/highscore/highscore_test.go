package highscore

import (
	"testing"

	"github.com/fbet-app/fbet/internal/domain/member"
	"github.com/fbet-app/fbet/internal/domain/tip"
)

func TestCompute_EveryMemberAppearsOnce(t *testing.T) {
	t.Parallel()

	members := []member.Member{
		{ID: 1, DisplayName: "anna"},
		{ID: 2, DisplayName: "bert"},
		{ID: 3, DisplayName: "cleo"},
	}
	tips := []tip.Record{
		{UserID: 1, EventID: 10, Points: 3},
		{UserID: 1, EventID: 11, Points: 1},
	}

	entries := Compute(members, tips)
	if len(entries) != len(members) {
		t.Fatalf("expected %d entries, got %d", len(members), len(entries))
	}

	seen := make(map[int64]int)
	for _, e := range entries {
		seen[e.UserID]++
	}
	for _, m := range members {
		if seen[m.ID] != 1 {
			t.Fatalf("member %d appears %d times", m.ID, seen[m.ID])
		}
	}
}

func TestCompute_PointConservation(t *testing.T) {
	t.Parallel()

	members := []member.Member{
		{ID: 1, DisplayName: "anna"},
		{ID: 2, DisplayName: "bert"},
	}
	tips := []tip.Record{
		{UserID: 1, EventID: 10, Points: 3},
		{UserID: 2, EventID: 10, Points: 0},
		{UserID: 2, EventID: 11, Points: 2},
		{UserID: 1, EventID: 11, Points: -1},
	}

	wantSum := 0
	for _, tp := range tips {
		wantSum += tp.Points
	}

	gotSum := 0
	for _, e := range Compute(members, tips) {
		gotSum += e.Points
	}
	if gotSum != wantSum {
		t.Fatalf("points not conserved: entries sum=%d, tips sum=%d", gotSum, wantSum)
	}
}

func TestCompute_SortedByPointsThenName(t *testing.T) {
	t.Parallel()

	members := []member.Member{
		{ID: 1, DisplayName: "zoe"},
		{ID: 2, DisplayName: "adam"},
		{ID: 3, DisplayName: "mila"},
	}
	tips := []tip.Record{
		{UserID: 1, EventID: 10, Points: 4},
		{UserID: 2, EventID: 10, Points: 4},
		{UserID: 3, EventID: 10, Points: 7},
	}

	entries := Compute(members, tips)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Points < cur.Points {
			t.Fatalf("entries not sorted by points: %+v before %+v", prev, cur)
		}
		if prev.Points == cur.Points && prev.Name > cur.Name {
			t.Fatalf("tie not broken by name: %+v before %+v", prev, cur)
		}
	}
	if entries[0].UserID != 3 {
		t.Fatalf("expected user 3 first, got %+v", entries[0])
	}
	if entries[1].Name != "adam" || entries[2].Name != "zoe" {
		t.Fatalf("unexpected tie order: %+v, %+v", entries[1], entries[2])
	}
}

func TestCompute_EmptyGroup(t *testing.T) {
	t.Parallel()

	entries := Compute(nil, nil)
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(entries))
	}
}

func TestCompute_NameFallbacks(t *testing.T) {
	t.Parallel()

	members := []member.Member{
		{ID: 7, DisplayName: "", Email: "bob@x.com"},
		{ID: 8, DisplayName: "  ", Email: ""},
		{ID: 9, DisplayName: " Carla "},
	}

	entries := Compute(members, nil)
	byID := make(map[int64]Entry, len(entries))
	for _, e := range entries {
		byID[e.UserID] = e
	}

	if got := byID[7]; got.Name != "bob" || got.Points != 0 {
		t.Fatalf("expected {name: bob, points: 0}, got %+v", got)
	}
	if got := byID[8]; got.Name != "User 8" {
		t.Fatalf("expected synthetic name for member 8, got %q", got.Name)
	}
	if got := byID[9]; got.Name != "Carla" {
		t.Fatalf("expected trimmed display name, got %q", got.Name)
	}
}

func TestLeaders(t *testing.T) {
	t.Parallel()

	t.Run("single leader", func(t *testing.T) {
		t.Parallel()
		leaders := Leaders([]Entry{{UserID: 1, Points: 5}, {UserID: 2, Points: 3}})
		if len(leaders) != 1 || leaders[0] != 1 {
			t.Fatalf("expected [1], got %v", leaders)
		}
	})

	t.Run("tied leaders", func(t *testing.T) {
		t.Parallel()
		leaders := Leaders([]Entry{{UserID: 1, Points: 5}, {UserID: 2, Points: 5}, {UserID: 3, Points: 1}})
		if len(leaders) != 2 {
			t.Fatalf("expected two tied leaders, got %v", leaders)
		}
	})

	t.Run("zero board has no leaders", func(t *testing.T) {
		t.Parallel()
		if leaders := Leaders([]Entry{{UserID: 1, Points: 0}, {UserID: 2, Points: 0}}); leaders != nil {
			t.Fatalf("expected no leaders on zero board, got %v", leaders)
		}
	})

	t.Run("empty board", func(t *testing.T) {
		t.Parallel()
		if leaders := Leaders(nil); leaders != nil {
			t.Fatalf("expected no leaders, got %v", leaders)
		}
	})
}
