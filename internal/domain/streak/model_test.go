package streak

import (
	"testing"
	"time"

	"github.com/fbet-app/fbet/internal/domain/highscore"
)

var testNow = time.Date(2023, 5, 12, 8, 0, 0, 0, time.UTC)

func activeStreak(groupID, userID int64, since time.Time) Streak {
	return Streak{GroupID: groupID, UserID: userID, BecameLeaderOn: since}
}

func TestDiff_LeaderChange(t *testing.T) {
	t.Parallel()

	snapshotA := []highscore.Entry{
		{UserID: 1, Name: "anna", Points: 5},
		{UserID: 2, Name: "bert", Points: 3},
	}

	delta := Diff(snapshotA, nil, testNow)
	if len(delta.ToClose) != 0 || len(delta.ToCreate) != 1 || delta.ToCreate[0] != 1 {
		t.Fatalf("expected one created streak for user 1, got %+v", delta)
	}

	// user 2 overtakes; user 1's streak closes, user 2's opens
	active := []Streak{activeStreak(9, 1, testNow)}
	snapshotB := []highscore.Entry{
		{UserID: 1, Name: "anna", Points: 5},
		{UserID: 2, Name: "bert", Points: 8},
	}

	delta = Diff(snapshotB, active, testNow.Add(24*time.Hour))
	if len(delta.ToClose) != 1 || delta.ToClose[0].UserID != 1 {
		t.Fatalf("expected user 1 streak closed, got %+v", delta.ToClose)
	}
	if delta.ToClose[0].EndedOn == nil || !delta.ToClose[0].EndedOn.Equal(testNow.Add(24*time.Hour)) {
		t.Fatalf("expected EndedOn set to now, got %+v", delta.ToClose[0].EndedOn)
	}
	if len(delta.ToCreate) != 1 || delta.ToCreate[0] != 2 {
		t.Fatalf("expected user 2 streak created, got %+v", delta.ToCreate)
	}
}

func TestDiff_TieKeepsBothActive(t *testing.T) {
	t.Parallel()

	entries := []highscore.Entry{
		{UserID: 1, Name: "anna", Points: 5},
		{UserID: 2, Name: "bert", Points: 5},
	}

	delta := Diff(entries, []Streak{activeStreak(9, 1, testNow)}, testNow)
	if len(delta.ToClose) != 0 {
		t.Fatalf("tie must not close the existing streak, got %+v", delta.ToClose)
	}
	if len(delta.ToCreate) != 1 || delta.ToCreate[0] != 2 {
		t.Fatalf("expected second streak for user 2, got %+v", delta.ToCreate)
	}
}

func TestDiff_EmptyBoardClosesEverything(t *testing.T) {
	t.Parallel()

	active := []Streak{activeStreak(9, 1, testNow), activeStreak(9, 2, testNow)}

	delta := Diff(nil, active, testNow)
	if len(delta.ToClose) != 2 {
		t.Fatalf("expected both streaks closed, got %+v", delta.ToClose)
	}
	if len(delta.ToCreate) != 0 {
		t.Fatalf("empty board must create nothing, got %+v", delta.ToCreate)
	}
}

func TestDiff_ZeroPointBoardHasNoLeaders(t *testing.T) {
	t.Parallel()

	entries := []highscore.Entry{
		{UserID: 1, Name: "anna", Points: 0},
		{UserID: 2, Name: "bert", Points: 0},
	}

	delta := Diff(entries, []Streak{activeStreak(9, 1, testNow)}, testNow)
	if len(delta.ToClose) != 1 || delta.ToClose[0].UserID != 1 {
		t.Fatalf("expected the active streak closed, got %+v", delta)
	}
	if len(delta.ToCreate) != 0 {
		t.Fatalf("zero board must create nothing, got %+v", delta.ToCreate)
	}
}

func TestDiff_Idempotent(t *testing.T) {
	t.Parallel()

	entries := []highscore.Entry{
		{UserID: 1, Name: "anna", Points: 5},
		{UserID: 2, Name: "bert", Points: 5},
		{UserID: 3, Name: "cleo", Points: 2},
	}
	active := []Streak{activeStreak(9, 3, testNow)}

	first := Diff(entries, active, testNow)
	if first.Empty() {
		t.Fatal("expected a non-empty first delta")
	}

	// apply the delta by hand, then diff again with the same snapshot
	applied := make([]Streak, 0, len(active)+len(first.ToCreate))
	closedSet := make(map[int64]struct{}, len(first.ToClose))
	for _, s := range first.ToClose {
		closedSet[s.UserID] = struct{}{}
	}
	for _, s := range active {
		if _, closed := closedSet[s.UserID]; !closed {
			applied = append(applied, s)
		}
	}
	for _, userID := range first.ToCreate {
		applied = append(applied, activeStreak(9, userID, testNow))
	}

	second := Diff(entries, applied, testNow.Add(time.Hour))
	if !second.Empty() {
		t.Fatalf("expected no-op on second run, got %+v", second)
	}
}

func TestDiff_IgnoresAlreadyClosedRows(t *testing.T) {
	t.Parallel()

	ended := testNow.Add(-time.Hour)
	closed := Streak{GroupID: 9, UserID: 1, BecameLeaderOn: testNow.Add(-48 * time.Hour), EndedOn: &ended}
	entries := []highscore.Entry{{UserID: 1, Name: "anna", Points: 4}}

	delta := Diff(entries, []Streak{closed}, testNow)
	if len(delta.ToCreate) != 1 || delta.ToCreate[0] != 1 {
		t.Fatalf("closed row must not count as active, got %+v", delta)
	}
	if len(delta.ToClose) != 0 {
		t.Fatalf("nothing to close, got %+v", delta.ToClose)
	}
}
