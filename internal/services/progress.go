package services

import (
	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/gorm"
)

type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// Progress is the team's unlocked progress points: the sum of
// progress_points over solved puzzles, floored at the hunt's progress
// floor. Recomputed from the guess ledger on every call; there is no cached
// score to go stale. A nil team (anonymous viewer) sits exactly at the
// floor.
func (s *ProgressService) Progress(hunt *models.Hunt, team *models.Team) (int, error) {
	if team == nil {
		return hunt.ProgressFloor, nil
	}

	var sum int
	err := s.db.Model(&models.Puzzle{}).
		Where("hunt_id = ?", hunt.ID).
		Where("EXISTS (SELECT 1 FROM guesses WHERE guesses.puzzle_id = puzzles.id AND guesses.team_id = ? AND guesses.correct)", team.ID).
		Select("COALESCE(SUM(progress_points), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}

	if sum < hunt.ProgressFloor {
		return hunt.ProgressFloor, nil
	}
	return sum, nil
}

// IsViewable reports whether a puzzle is unlocked for the viewer.
// Organizers see everything; everyone else needs progress at or above the
// puzzle's threshold, with a nil team judged against the hunt floor.
func (s *ProgressService) IsViewable(puzzle *models.Puzzle, hunt *models.Hunt, team *models.Team, isOrganizer bool) (bool, error) {
	if isOrganizer {
		return true, nil
	}
	progress, err := s.Progress(hunt, team)
	if err != nil {
		return false, err
	}
	return progress >= puzzle.ProgressThreshold, nil
}

// PuzzleView is a puzzle annotated for a hunt page: whether the viewer's
// team has solved it, plus hunt-wide solve and guess tallies.
type PuzzleView struct {
	models.Puzzle
	Solved     bool  `json:"solved"`
	SolveCount int64 `json:"solve_count"`
	GuessCount int64 `json:"guess_count"`
}

// VisiblePuzzles lists the puzzles a viewer may see, ordered by display
// order with name as tie-break. Organizers get the full list, team members
// get their unlocked set, and anonymous viewers get the public set gated by
// the hunt floor.
func (s *ProgressService) VisiblePuzzles(hunt *models.Hunt, team *models.Team, isOrganizer bool) ([]PuzzleView, error) {
	query := s.db.Where("hunt_id = ?", hunt.ID).Order("order_num ASC, name ASC")
	switch {
	case isOrganizer:
		// no gate
	case team != nil:
		progress, err := s.Progress(hunt, team)
		if err != nil {
			return nil, err
		}
		query = query.Where("progress_threshold <= ?", progress)
	default:
		query = query.Where("progress_threshold <= ?", hunt.ProgressFloor)
	}

	var puzzles []models.Puzzle
	if err := query.Find(&puzzles).Error; err != nil {
		return nil, err
	}

	solved := make(map[uint]bool)
	if team != nil {
		var solvedIDs []uint
		if err := s.db.Model(&models.Guess{}).
			Where("team_id = ? AND correct", team.ID).
			Pluck("puzzle_id", &solvedIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range solvedIDs {
			solved[id] = true
		}
	}

	type puzzleTally struct {
		PuzzleID   uint
		SolveCount int64
		GuessCount int64
	}
	var tallies []puzzleTally
	err := s.db.Model(&models.Guess{}).
		Select("puzzle_id, COUNT(CASE WHEN correct THEN 1 END) AS solve_count, COUNT(*) AS guess_count").
		Joins("JOIN puzzles ON puzzles.id = guesses.puzzle_id").
		Where("puzzles.hunt_id = ?", hunt.ID).
		Group("puzzle_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, err
	}
	tallyByPuzzle := make(map[uint]puzzleTally, len(tallies))
	for _, t := range tallies {
		tallyByPuzzle[t.PuzzleID] = t
	}

	views := make([]PuzzleView, len(puzzles))
	for i, p := range puzzles {
		tally := tallyByPuzzle[p.ID]
		views[i] = PuzzleView{
			Puzzle:     p,
			Solved:     solved[p.ID],
			SolveCount: tally.SolveCount,
			GuessCount: tally.GuessCount,
		}
	}
	return views, nil
}
