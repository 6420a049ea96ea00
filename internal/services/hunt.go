package services

import (
	"errors"
	"time"

	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HuntService struct {
	db *gorm.DB
}

func NewHuntService(db *gorm.DB) *HuntService {
	return &HuntService{db: db}
}

type HuntInput struct {
	Name          string
	Description   string
	StartTime     *time.Time
	EndTime       *time.Time
	ProgressFloor int
	MemberLimit   int
	GuessLimit    *int
}

func (s *HuntService) ListHunts() ([]models.Hunt, error) {
	var hunts []models.Hunt
	if err := s.db.Order("created_at DESC").Find(&hunts).Error; err != nil {
		return nil, err
	}
	return hunts, nil
}

func (s *HuntService) GetHunt(huntID uint) (*models.Hunt, error) {
	var hunt models.Hunt
	if err := s.db.First(&hunt, huntID).Error; err != nil {
		return nil, ErrHuntNotFound
	}
	return &hunt, nil
}

func (s *HuntService) CreateHunt(userID uint, input HuntInput) (*models.Hunt, error) {
	guessLimit := models.DefaultGuessLimit
	if input.GuessLimit != nil {
		guessLimit = *input.GuessLimit
	}

	hunt := models.Hunt{
		Name:          input.Name,
		Description:   input.Description,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		ProgressFloor: input.ProgressFloor,
		MemberLimit:   input.MemberLimit,
		GuessLimit:    guessLimit,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&hunt).Error; err != nil {
			return err
		}
		return tx.Create(&models.HuntOrganizer{HuntID: hunt.ID, UserID: userID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &hunt, nil
}

// UpdateHunt edits hunt settings. The progress floor is monotonic: it can
// only be raised, so a team's unlocked puzzles never disappear.
func (s *HuntService) UpdateHunt(huntID, userID uint, input HuntInput) (*models.Hunt, error) {
	hunt, err := s.GetHunt(huntID)
	if err != nil {
		return nil, err
	}
	if !s.IsOrganizer(huntID, userID) {
		return nil, ErrNotOrganizer
	}
	if input.ProgressFloor < hunt.ProgressFloor {
		return nil, ErrFloorDecrease
	}

	hunt.Name = input.Name
	hunt.Description = input.Description
	hunt.StartTime = input.StartTime
	hunt.EndTime = input.EndTime
	hunt.ProgressFloor = input.ProgressFloor
	hunt.MemberLimit = input.MemberLimit
	if input.GuessLimit != nil {
		hunt.GuessLimit = *input.GuessLimit
	}
	if err := s.db.Save(hunt).Error; err != nil {
		return nil, err
	}
	return hunt, nil
}

func (s *HuntService) IsOrganizer(huntID, userID uint) bool {
	if userID == 0 {
		return false
	}
	var count int64
	s.db.Model(&models.HuntOrganizer{}).
		Where("hunt_id = ? AND user_id = ?", huntID, userID).
		Count(&count)
	return count > 0
}

type PuzzleInput struct {
	Name              string
	Content           string
	Answer            string
	Points            int
	OrderNum          int
	ProgressPoints    int
	ProgressThreshold int
}

func (s *HuntService) CreatePuzzle(huntID, userID uint, input PuzzleInput) (*models.Puzzle, error) {
	if _, err := s.GetHunt(huntID); err != nil {
		return nil, err
	}
	if !s.IsOrganizer(huntID, userID) {
		return nil, ErrNotOrganizer
	}

	puzzle := models.Puzzle{
		HuntID:            huntID,
		Name:              input.Name,
		Content:           input.Content,
		Answer:            input.Answer,
		Points:            input.Points,
		OrderNum:          input.OrderNum,
		ProgressPoints:    input.ProgressPoints,
		ProgressThreshold: input.ProgressThreshold,
	}
	if err := s.db.Create(&puzzle).Error; err != nil {
		return nil, err
	}
	return &puzzle, nil
}

func (s *HuntService) GetPuzzle(puzzleID uint) (*models.Puzzle, error) {
	var puzzle models.Puzzle
	if err := s.db.First(&puzzle, puzzleID).Error; err != nil {
		return nil, ErrPuzzleNotFound
	}
	return &puzzle, nil
}

func (s *HuntService) UpdatePuzzle(puzzleID, userID uint, input PuzzleInput) (*models.Puzzle, error) {
	puzzle, err := s.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}
	if !s.IsOrganizer(puzzle.HuntID, userID) {
		return nil, ErrNotOrganizer
	}

	puzzle.Name = input.Name
	puzzle.Content = input.Content
	puzzle.Answer = input.Answer
	puzzle.Points = input.Points
	puzzle.OrderNum = input.OrderNum
	puzzle.ProgressPoints = input.ProgressPoints
	puzzle.ProgressThreshold = input.ProgressThreshold
	if err := s.db.Save(puzzle).Error; err != nil {
		return nil, err
	}
	return puzzle, nil
}

func (s *HuntService) AddGuessResponse(puzzleID, userID uint, guess, response string) (*models.GuessResponse, error) {
	puzzle, err := s.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}
	if !s.IsOrganizer(puzzle.HuntID, userID) {
		return nil, ErrNotOrganizer
	}

	rule := models.GuessResponse{
		PuzzleID: puzzleID,
		Guess:    guess,
		Response: response,
	}
	if err := s.db.Create(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("a response for that guess already exists")
		}
		return nil, err
	}
	return &rule, nil
}

// GrantExtraGuesses upserts the single grant row for a (team, puzzle) pair.
func (s *HuntService) GrantExtraGuesses(puzzleID, userID, teamID uint, extraGuesses int) (*models.ExtraGuessGrant, error) {
	puzzle, err := s.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}
	if !s.IsOrganizer(puzzle.HuntID, userID) {
		return nil, ErrNotOrganizer
	}

	var team models.Team
	if err := s.db.Where("id = ? AND hunt_id = ?", teamID, puzzle.HuntID).First(&team).Error; err != nil {
		return nil, ErrTeamNotFound
	}

	grant := models.ExtraGuessGrant{
		TeamID:       teamID,
		PuzzleID:     puzzleID,
		ExtraGuesses: extraGuesses,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "puzzle_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"extra_guesses"}),
	}).Create(&grant).Error
	if err != nil {
		return nil, err
	}

	s.db.Where("team_id = ? AND puzzle_id = ?", teamID, puzzleID).First(&grant)
	return &grant, nil
}

// PuzzleLog returns every guess on a puzzle, oldest first. Organizers only.
func (s *HuntService) PuzzleLog(puzzleID, userID uint) ([]models.Guess, error) {
	puzzle, err := s.GetPuzzle(puzzleID)
	if err != nil {
		return nil, err
	}
	if !s.IsOrganizer(puzzle.HuntID, userID) {
		return nil, ErrNotOrganizer
	}

	var guesses []models.Guess
	if err := s.db.Where("puzzle_id = ?", puzzleID).
		Order("created_at ASC").
		Find(&guesses).Error; err != nil {
		return nil, err
	}
	return guesses, nil
}
