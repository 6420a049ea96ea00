package services

import (
	"testing"
	"time"

	"github.com/PuzzleTechHub/myus/internal/models"
)

func TestRankTeamsScoreBeatsSpeed(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	teams := []models.Team{
		{ID: 1, Name: "Team A"},
		{ID: 2, Name: "Team B"},
	}
	// A finished first but B scored more; B wins.
	solves := []Solve{
		{TeamID: 1, Points: 10, SolvedAt: base},
		{TeamID: 2, Points: 15, SolvedAt: base.Add(time.Hour)},
	}

	entries := RankTeams(teams, solves)
	if entries[0].TeamName != "Team B" || entries[1].TeamName != "Team A" {
		t.Errorf("order = [%s %s], want [Team B Team A]", entries[0].TeamName, entries[1].TeamName)
	}
	if entries[0].Position != 1 || entries[1].Position != 2 {
		t.Errorf("positions = [%d %d], want [1 2]", entries[0].Position, entries[1].Position)
	}
}

func TestRankTeamsTieBreaks(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	teams := []models.Team{
		{ID: 1, Name: "Slow"},
		{ID: 2, Name: "Fast"},
		{ID: 3, Name: "Fewer"},
	}
	solves := []Solve{
		// Slow and Fast both score 20 with two solves; Fast's last solve is
		// earlier, so it ranks higher.
		{TeamID: 1, Points: 10, SolvedAt: base},
		{TeamID: 1, Points: 10, SolvedAt: base.Add(3 * time.Hour)},
		{TeamID: 2, Points: 10, SolvedAt: base},
		{TeamID: 2, Points: 10, SolvedAt: base.Add(time.Hour)},
		// Fewer reaches 20 with one solve; more solves ranks above it.
		{TeamID: 3, Points: 20, SolvedAt: base},
	}

	entries := RankTeams(teams, solves)
	got := []string{entries[0].TeamName, entries[1].TeamName, entries[2].TeamName}
	want := []string{"Fast", "Slow", "Fewer"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRankTeamsNoSolves(t *testing.T) {
	teams := []models.Team{
		{ID: 1, Name: "Idle"},
		{ID: 2, Name: "Active"},
	}
	solves := []Solve{
		{TeamID: 2, Points: 5, SolvedAt: time.Now()},
	}

	entries := RankTeams(teams, solves)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (teams with no solves still appear)", len(entries))
	}
	if entries[0].TeamName != "Active" {
		t.Errorf("first = %s, want Active", entries[0].TeamName)
	}
	idle := entries[1]
	if idle.Score != 0 || idle.SolveCount != 0 || idle.LastSolve != nil {
		t.Errorf("idle entry = %+v, want zero score, zero solves, nil last solve", idle)
	}
}

func TestGetLeaderboardFromLedger(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	hunt := createHunt(t, db, nil, 0)
	p1 := createPuzzle(t, db, hunt, "P1", "A", 10, 1, 0)
	p2 := createPuzzle(t, db, hunt, "P2", "B", 15, 1, 0)
	teamA := createTeam(t, db, hunt, "Team A", alice)
	teamB := createTeam(t, db, hunt, "Team B", bob)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createSolve(t, db, teamA, p1, base)
	createSolve(t, db, teamB, p2, base.Add(time.Hour))

	// A wrong guess on another team's ledger must not contribute points.
	wrong := models.Guess{TeamID: teamA.ID, PuzzleID: p2.ID, Guess: "NOPE", CountsAsGuess: true}
	if err := db.Create(&wrong).Error; err != nil {
		t.Fatalf("create wrong guess: %v", err)
	}

	svc := NewLeaderboardService(db)
	entries, err := svc.GetLeaderboard(hunt.ID)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].TeamName != "Team B" || entries[0].Score != 15 {
		t.Errorf("first = %s/%d, want Team B/15", entries[0].TeamName, entries[0].Score)
	}
	if entries[1].TeamName != "Team A" || entries[1].Score != 10 {
		t.Errorf("second = %s/%d, want Team A/10", entries[1].TeamName, entries[1].Score)
	}
	if entries[1].LastSolve == nil || !entries[1].LastSolve.Equal(base) {
		t.Errorf("Team A last solve = %v, want %v", entries[1].LastSolve, base)
	}
}
