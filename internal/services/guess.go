package services

import (
	"database/sql"
	"errors"
	"strings"
	"unicode"

	"github.com/PuzzleTechHub/myus/internal/metrics"
	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/gorm"
)

type GuessService struct {
	db *gorm.DB
}

func NewGuessService(db *gorm.DB) *GuessService {
	return &GuessService{db: db}
}

// NormalizeAnswer strips everything but letters and digits and uppercases
// the rest, so "Dallas!", "dallas" and "D A L L A S" all compare equal.
// Guesses, answers and configured responses all go through this before any
// comparison.
func NormalizeAnswer(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

type GuessOutcome string

const (
	OutcomeCorrect               GuessOutcome = "correct"
	OutcomeIncorrectWithResponse GuessOutcome = "incorrect_with_response"
	OutcomeIncorrect             GuessOutcome = "incorrect"
)

type GuessResult struct {
	Outcome GuessOutcome `json:"outcome"`
	Guess   models.Guess `json:"guess"`
	// Response carries the canned reply for guesses that matched a
	// configured guess response.
	Response string `json:"response,omitempty"`
}

// SubmitGuess validates and records one guess attempt for a team.
//
// A guess equal to the puzzle's answer is always correct and always counts,
// even if an organizer configured a response rule with the same text. An
// incorrect guess matching a response rule gets the canned reply and does
// not count toward the guess limit, so it is accepted even when the team is
// out of guesses. The check-then-insert sequence runs in a serializable
// transaction, and the partial unique index on correct guesses settles any
// race between two winning submissions.
func (s *GuessService) SubmitGuess(teamID, puzzleID, userID uint, rawText string) (*GuessResult, error) {
	text := NormalizeAnswer(rawText)
	if text == "" {
		return nil, ErrEmptyGuess
	}

	var puzzle models.Puzzle
	if err := s.db.First(&puzzle, puzzleID).Error; err != nil {
		return nil, ErrPuzzleNotFound
	}
	var hunt models.Hunt
	if err := s.db.First(&hunt, puzzle.HuntID).Error; err != nil {
		return nil, ErrHuntNotFound
	}

	correct := text == NormalizeAnswer(puzzle.Answer)

	response := ""
	countsAsGuess := true
	if !correct {
		var rules []models.GuessResponse
		if err := s.db.Where("puzzle_id = ?", puzzleID).Find(&rules).Error; err != nil {
			return nil, err
		}
		for _, rule := range rules {
			if NormalizeAnswer(rule.Guess) == text {
				response = rule.Response
				countsAsGuess = false
				break
			}
		}
	}

	uid := userID
	guess := models.Guess{
		TeamID:        teamID,
		PuzzleID:      puzzleID,
		UserID:        &uid,
		Guess:         text,
		Correct:       correct,
		CountsAsGuess: countsAsGuess,
		Response:      response,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var solvedCount int64
		if err := tx.Model(&models.Guess{}).
			Where("team_id = ? AND puzzle_id = ? AND correct", teamID, puzzleID).
			Count(&solvedCount).Error; err != nil {
			return err
		}
		if solvedCount > 0 {
			return ErrAlreadySolved
		}

		if countsAsGuess && hunt.GuessLimit != 0 {
			limit := hunt.GuessLimit
			var grant models.ExtraGuessGrant
			if err := tx.Where("team_id = ? AND puzzle_id = ?", teamID, puzzleID).
				First(&grant).Error; err == nil {
				limit += grant.ExtraGuesses
			}

			var used int64
			if err := tx.Model(&models.Guess{}).
				Where("team_id = ? AND puzzle_id = ? AND counts_as_guess", teamID, puzzleID).
				Count(&used).Error; err != nil {
				return err
			}
			if used >= int64(limit) {
				return ErrLimitReached
			}
		}

		var duplicates int64
		if err := tx.Model(&models.Guess{}).
			Where("team_id = ? AND puzzle_id = ? AND guess = ?", teamID, puzzleID, text).
			Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return ErrDuplicateGuess
		}

		return tx.Create(&guess).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent submission beat us to the insert. For a correct
			// guess that means the puzzle is already solved; otherwise the
			// same text already landed.
			if correct {
				return nil, ErrAlreadySolved
			}
			return nil, ErrDuplicateGuess
		}
		return nil, err
	}

	metrics.GuessesSubmitted.Inc()

	result := &GuessResult{Guess: guess, Response: response}
	switch {
	case correct:
		result.Outcome = OutcomeCorrect
		metrics.GuessesCorrect.Inc()
	case response != "":
		result.Outcome = OutcomeIncorrectWithResponse
	default:
		result.Outcome = OutcomeIncorrect
	}
	return result, nil
}

// TeamGuessState summarizes a team's standing on one puzzle for the puzzle
// page: past guesses, solved flag and how many counting guesses remain.
type TeamGuessState struct {
	Solved           bool           `json:"solved"`
	GuessesLimited   bool           `json:"guesses_limited"`
	GuessesRemaining int            `json:"guesses_remaining"`
	Guesses          []models.Guess `json:"guesses"`
}

func (s *GuessService) GetTeamGuessState(teamID, puzzleID uint) (*TeamGuessState, error) {
	var puzzle models.Puzzle
	if err := s.db.First(&puzzle, puzzleID).Error; err != nil {
		return nil, ErrPuzzleNotFound
	}
	var hunt models.Hunt
	if err := s.db.First(&hunt, puzzle.HuntID).Error; err != nil {
		return nil, ErrHuntNotFound
	}

	var guesses []models.Guess
	if err := s.db.Where("team_id = ? AND puzzle_id = ?", teamID, puzzleID).
		Order("created_at ASC").
		Find(&guesses).Error; err != nil {
		return nil, err
	}

	state := &TeamGuessState{Guesses: guesses}
	counting := 0
	for _, g := range guesses {
		if g.Correct {
			state.Solved = true
		}
		if g.CountsAsGuess {
			counting++
		}
	}

	if hunt.GuessLimit != 0 {
		state.GuessesLimited = true
		limit := hunt.GuessLimit
		var grant models.ExtraGuessGrant
		if err := s.db.Where("team_id = ? AND puzzle_id = ?", teamID, puzzleID).
			First(&grant).Error; err == nil {
			limit += grant.ExtraGuesses
		}
		state.GuessesRemaining = limit - counting
		if state.GuessesRemaining < 0 {
			state.GuessesRemaining = 0
		}
	}
	return state, nil
}
