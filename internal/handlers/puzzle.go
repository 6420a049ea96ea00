package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PuzzleTechHub/myus/internal/models"
	"github.com/PuzzleTechHub/myus/internal/services"

	"github.com/gin-gonic/gin"
)

type PuzzleHandler struct {
	huntService     *services.HuntService
	progressService *services.ProgressService
	teamService     *services.TeamService
	guessService    *services.GuessService
}

func NewPuzzleHandler(
	huntService *services.HuntService,
	progressService *services.ProgressService,
	teamService *services.TeamService,
	guessService *services.GuessService,
) *PuzzleHandler {
	return &PuzzleHandler{
		huntService:     huntService,
		progressService: progressService,
		teamService:     teamService,
		guessService:    guessService,
	}
}

type PuzzleRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=500" example:"Starry Night"`
	Content           string `json:"content" example:"https://example.com/starry-night"`
	Answer            string `json:"answer" binding:"required,min=1,max=500" example:"CONSTELLATION"`
	Points            int    `json:"points" binding:"min=0" example:"10"`
	Order             int    `json:"order"`
	ProgressPoints    int    `json:"progress_points" binding:"min=0"`
	ProgressThreshold int    `json:"progress_threshold" binding:"min=0"`
}

type PuzzleDetail struct {
	Puzzle      models.Puzzle            `json:"puzzle"`
	GuessState  *services.TeamGuessState `json:"guess_state,omitempty"`
	IsOrganizer bool                     `json:"is_organizer"`
}

// CreatePuzzle godoc
// @Summary      Create a puzzle
// @Description  Add a puzzle to a hunt (organizers only)
// @Tags         puzzles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Hunt ID"
// @Param        request body PuzzleRequest true "Puzzle data"
// @Success      201 {object} Puzzle
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/hunts/{id}/puzzles [post]
func (h *PuzzleHandler) CreatePuzzle(c *gin.Context) {
	userID := c.GetUint("user_id")
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	var req PuzzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	puzzle, err := h.huntService.CreatePuzzle(uint(huntID), userID, services.PuzzleInput{
		Name:              req.Name,
		Content:           req.Content,
		Answer:            req.Answer,
		Points:            req.Points,
		OrderNum:          req.Order,
		ProgressPoints:    req.ProgressPoints,
		ProgressThreshold: req.ProgressThreshold,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, puzzle)
}

// GetPuzzle godoc
// @Summary      View a puzzle
// @Description  Get a puzzle if it is unlocked for the caller, along with the caller's team guess history
// @Tags         puzzles
// @Produce      json
// @Param        id path int true "Hunt ID"
// @Param        puzzle_id path int true "Puzzle ID"
// @Success      200 {object} PuzzleDetail
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/hunts/{id}/puzzles/{puzzle_id} [get]
func (h *PuzzleHandler) GetPuzzle(c *gin.Context) {
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}
	puzzleID, err := strconv.ParseUint(c.Param("puzzle_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid puzzle id"})
		return
	}

	hunt, err := h.huntService.GetHunt(uint(huntID))
	if err != nil {
		respondError(c, err)
		return
	}
	puzzle, err := h.huntService.GetPuzzle(uint(puzzleID))
	if err != nil || puzzle.HuntID != hunt.ID {
		respondError(c, services.ErrPuzzleNotFound)
		return
	}

	userID := viewerID(c)
	isOrganizer := userID != 0 && h.huntService.IsOrganizer(hunt.ID, userID)

	var team *models.Team
	if userID != 0 {
		if t, err := h.teamService.TeamForUser(hunt.ID, userID); err == nil {
			team = t
		} else if !errors.Is(err, services.ErrNotOnTeam) {
			respondError(c, err)
			return
		}
	}

	viewable, err := h.progressService.IsViewable(puzzle, hunt, team, isOrganizer)
	if err != nil {
		respondError(c, err)
		return
	}
	if !viewable {
		respondError(c, services.ErrPuzzleLocked)
		return
	}

	detail := PuzzleDetail{Puzzle: *puzzle, IsOrganizer: isOrganizer}
	if team != nil {
		state, err := h.guessService.GetTeamGuessState(team.ID, puzzle.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		detail.GuessState = state
	}

	c.JSON(http.StatusOK, detail)
}

// UpdatePuzzle godoc
// @Summary      Edit a puzzle
// @Description  Update a puzzle (organizers only)
// @Tags         puzzles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Puzzle ID"
// @Param        request body PuzzleRequest true "Puzzle data"
// @Success      200 {object} Puzzle
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/puzzles/{id} [put]
func (h *PuzzleHandler) UpdatePuzzle(c *gin.Context) {
	userID := c.GetUint("user_id")
	puzzleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid puzzle id"})
		return
	}

	var req PuzzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	puzzle, err := h.huntService.UpdatePuzzle(uint(puzzleID), userID, services.PuzzleInput{
		Name:              req.Name,
		Content:           req.Content,
		Answer:            req.Answer,
		Points:            req.Points,
		OrderNum:          req.Order,
		ProgressPoints:    req.ProgressPoints,
		ProgressThreshold: req.ProgressThreshold,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, puzzle)
}

type GuessResponseRequest struct {
	Guess    string `json:"guess" binding:"required,min=1,max=500" example:"KEEP GOING"`
	Response string `json:"response" binding:"required" example:"You're on the right track!"`
}

// AddGuessResponse godoc
// @Summary      Add a guess response
// @Description  Configure a canned response for a particular guess; matching guesses do not count toward the limit
// @Tags         puzzles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Puzzle ID"
// @Param        request body GuessResponseRequest true "Response rule"
// @Success      201 {object} models.GuessResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/puzzles/{id}/responses [post]
func (h *PuzzleHandler) AddGuessResponse(c *gin.Context) {
	userID := c.GetUint("user_id")
	puzzleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid puzzle id"})
		return
	}

	var req GuessResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	rule, err := h.huntService.AddGuessResponse(uint(puzzleID), userID, req.Guess, req.Response)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

type GrantRequest struct {
	TeamID       uint `json:"team_id" binding:"required" example:"1"`
	ExtraGuesses int  `json:"extra_guesses" example:"2"`
}

// GrantExtraGuesses godoc
// @Summary      Grant extra guesses
// @Description  Set the extra-guess adjustment for one team on one puzzle (upsert)
// @Tags         puzzles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Puzzle ID"
// @Param        request body GrantRequest true "Grant data"
// @Success      200 {object} models.ExtraGuessGrant
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/puzzles/{id}/grants [post]
func (h *PuzzleHandler) GrantExtraGuesses(c *gin.Context) {
	userID := c.GetUint("user_id")
	puzzleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid puzzle id"})
		return
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	grant, err := h.huntService.GrantExtraGuesses(uint(puzzleID), userID, req.TeamID, req.ExtraGuesses)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}

// GetPuzzleLog godoc
// @Summary      View the puzzle guess log
// @Description  Get every guess on a puzzle, oldest first (organizers only)
// @Tags         puzzles
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Puzzle ID"
// @Success      200 {array} Guess
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/puzzles/{id}/log [get]
func (h *PuzzleHandler) GetPuzzleLog(c *gin.Context) {
	userID := c.GetUint("user_id")
	puzzleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid puzzle id"})
		return
	}

	guesses, err := h.huntService.PuzzleLog(uint(puzzleID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, guesses)
}
