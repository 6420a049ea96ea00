package services

import (
	"testing"
	"time"

	"github.com/PuzzleTechHub/myus/internal/database"
	"github.com/PuzzleTechHub/myus/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return &user
}

func createHunt(t *testing.T, db *gorm.DB, organizer *models.User, guessLimit int) *models.Hunt {
	t.Helper()

	hunt := models.Hunt{Name: "Test Hunt", GuessLimit: guessLimit}
	if err := db.Create(&hunt).Error; err != nil {
		t.Fatalf("create hunt: %v", err)
	}
	if organizer != nil {
		org := models.HuntOrganizer{HuntID: hunt.ID, UserID: organizer.ID}
		if err := db.Create(&org).Error; err != nil {
			t.Fatalf("create organizer: %v", err)
		}
	}
	return &hunt
}

func createPuzzle(t *testing.T, db *gorm.DB, hunt *models.Hunt, name, answer string, points, progressPoints, threshold int) *models.Puzzle {
	t.Helper()

	puzzle := models.Puzzle{
		HuntID:            hunt.ID,
		Name:              name,
		Answer:            answer,
		Points:            points,
		ProgressPoints:    progressPoints,
		ProgressThreshold: threshold,
	}
	if err := db.Create(&puzzle).Error; err != nil {
		t.Fatalf("create puzzle %q: %v", name, err)
	}
	return &puzzle
}

func createTeam(t *testing.T, db *gorm.DB, hunt *models.Hunt, name string, members ...*models.User) *models.Team {
	t.Helper()

	team := models.Team{HuntID: hunt.ID, Name: name}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team %q: %v", name, err)
	}
	for _, m := range members {
		row := models.TeamMember{TeamID: team.ID, HuntID: hunt.ID, UserID: m.ID, JoinedAt: time.Now()}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("add member %q to team %q: %v", m.Username, name, err)
		}
	}
	return &team
}

// createSolve inserts a correct guess directly, with an explicit timestamp
// for ranking tests.
func createSolve(t *testing.T, db *gorm.DB, team *models.Team, puzzle *models.Puzzle, at time.Time) {
	t.Helper()

	guess := models.Guess{
		TeamID:        team.ID,
		PuzzleID:      puzzle.ID,
		Guess:         NormalizeAnswer(puzzle.Answer),
		Correct:       true,
		CountsAsGuess: true,
		CreatedAt:     at,
	}
	if err := db.Create(&guess).Error; err != nil {
		t.Fatalf("create solve: %v", err)
	}
}

func countGuesses(t *testing.T, db *gorm.DB, teamID, puzzleID uint) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Guess{}).
		Where("team_id = ? AND puzzle_id = ?", teamID, puzzleID).
		Count(&n).Error; err != nil {
		t.Fatalf("count guesses: %v", err)
	}
	return n
}
