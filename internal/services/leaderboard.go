package services

import (
	"sort"
	"time"

	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

type LeaderboardEntry struct {
	Position   int        `json:"position"`
	TeamID     uint       `json:"team_id"`
	TeamName   string     `json:"team_name"`
	Score      int        `json:"score"`
	SolveCount int        `json:"solve_count"`
	LastSolve  *time.Time `json:"last_solve,omitempty"`
}

// Solve is one correct guess joined with the points it earned.
type Solve struct {
	TeamID   uint      `gorm:"column:team_id"`
	Points   int       `gorm:"column:points"`
	SolvedAt time.Time `gorm:"column:solved_at"`
}

// GetLeaderboard ranks every team in a hunt. The ranking is recomputed from
// the guess ledger on each call rather than kept in a denormalized score
// column, so concurrent submissions can never leave a stale total behind.
func (s *LeaderboardService) GetLeaderboard(huntID uint) ([]LeaderboardEntry, error) {
	var teams []models.Team
	if err := s.db.Where("hunt_id = ?", huntID).Find(&teams).Error; err != nil {
		return nil, err
	}

	var solves []Solve
	err := s.db.Model(&models.Guess{}).
		Select("guesses.team_id AS team_id, puzzles.points AS points, guesses.created_at AS solved_at").
		Joins("JOIN puzzles ON puzzles.id = guesses.puzzle_id").
		Where("puzzles.hunt_id = ? AND guesses.correct", huntID).
		Scan(&solves).Error
	if err != nil {
		return nil, err
	}

	return RankTeams(teams, solves), nil
}

// RankTeams orders teams by score, then solve count, then earliest last
// solve. It is a pure function over a snapshot of the ledger so the ranking
// rules can be tested without a database. Teams with no solves score zero
// and sort after everyone who finished anything.
func RankTeams(teams []models.Team, solves []Solve) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(teams))
	byTeam := make(map[uint]*LeaderboardEntry, len(teams))
	for i, team := range teams {
		entries[i] = LeaderboardEntry{TeamID: team.ID, TeamName: team.Name}
		byTeam[team.ID] = &entries[i]
	}

	for _, solve := range solves {
		entry, ok := byTeam[solve.TeamID]
		if !ok {
			continue
		}
		entry.Score += solve.Points
		entry.SolveCount++
		if entry.LastSolve == nil || solve.SolvedAt.After(*entry.LastSolve) {
			t := solve.SolvedAt
			entry.LastSolve = &t
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Score != entries[b].Score {
			return entries[a].Score > entries[b].Score
		}
		if entries[a].SolveCount != entries[b].SolveCount {
			return entries[a].SolveCount > entries[b].SolveCount
		}
		// Earlier last solve ranks higher; teams who reached the same
		// score sooner finished first.
		switch {
		case entries[a].LastSolve == nil:
			return false
		case entries[b].LastSolve == nil:
			return true
		case !entries[a].LastSolve.Equal(*entries[b].LastSolve):
			return entries[a].LastSolve.Before(*entries[b].LastSolve)
		}
		return entries[a].TeamName < entries[b].TeamName
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
