package models

import "time"

// Guess rows are append-only; they are never edited or deleted and form the
// audit trail everything else (progress, leaderboard) is computed from.
type Guess struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TeamID   uint `gorm:"not null;uniqueIndex:idx_guess_text_unique;index:idx_one_correct_guess,unique,where:correct" json:"team_id"`
	PuzzleID uint `gorm:"not null;uniqueIndex:idx_guess_text_unique;index:idx_one_correct_guess,unique,where:correct" json:"puzzle_id"`
	// UserID records who typed the guess. Audit only; users can move
	// between teams, so it is never authoritative for membership.
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	// Guess is stored in normalized form (alphanumerics only, uppercased).
	Guess   string `gorm:"size:500;not null;uniqueIndex:idx_guess_text_unique" json:"guess"`
	Correct bool   `gorm:"not null" json:"correct"`
	// CountsAsGuess is false for guesses that matched a configured
	// response; those never burn the team's guess budget. No column
	// default: GORM would drop a false value from the INSERT, and the
	// service always sets the field explicitly.
	CountsAsGuess bool      `gorm:"not null" json:"counts_as_guess"`
	Response      string    `gorm:"type:text" json:"response,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// ExtraGuessGrant raises the effective guess limit for one (team, puzzle)
// pair. A negative value takes guesses away.
type ExtraGuessGrant struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	TeamID       uint `gorm:"not null;uniqueIndex:idx_team_puzzle_grant" json:"team_id"`
	PuzzleID     uint `gorm:"not null;uniqueIndex:idx_team_puzzle_grant" json:"puzzle_id"`
	ExtraGuesses int  `gorm:"not null" json:"extra_guesses"`
}
