package handlers

import (
	"net/http"
	"strconv"

	"github.com/PuzzleTechHub/myus/internal/services"
	"github.com/PuzzleTechHub/myus/internal/ws"

	"github.com/gin-gonic/gin"
)

type GuessHandler struct {
	huntService     *services.HuntService
	progressService *services.ProgressService
	teamService     *services.TeamService
	guessService    *services.GuessService
	hub             *ws.Hub
}

func NewGuessHandler(
	huntService *services.HuntService,
	progressService *services.ProgressService,
	teamService *services.TeamService,
	guessService *services.GuessService,
	hub *ws.Hub,
) *GuessHandler {
	return &GuessHandler{
		huntService:     huntService,
		progressService: progressService,
		teamService:     teamService,
		guessService:    guessService,
		hub:             hub,
	}
}

type SubmitGuessRequest struct {
	Guess string `json:"guess" binding:"required" example:"Dallas!"`
}

// SubmitGuess godoc
// @Summary      Submit a guess
// @Description  Record a guess attempt for the caller's team. Correct guesses always count; guesses matching a configured response are accepted without burning a guess.
// @Tags         guesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Puzzle ID"
// @Param        request body SubmitGuessRequest true "Guess"
// @Success      201 {object} services.GuessResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/puzzles/{id}/guesses [post]
func (h *GuessHandler) SubmitGuess(c *gin.Context) {
	userID := c.GetUint("user_id")
	puzzleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid puzzle id"})
		return
	}

	var req SubmitGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	puzzle, err := h.huntService.GetPuzzle(uint(puzzleID))
	if err != nil {
		respondError(c, err)
		return
	}
	hunt, err := h.huntService.GetHunt(puzzle.HuntID)
	if err != nil {
		respondError(c, err)
		return
	}

	team, err := h.teamService.TeamForUser(hunt.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	viewable, err := h.progressService.IsViewable(puzzle, hunt, team, false)
	if err != nil {
		respondError(c, err)
		return
	}
	if !viewable {
		respondError(c, services.ErrPuzzleLocked)
		return
	}

	result, err := h.guessService.SubmitGuess(team.ID, puzzle.ID, userID, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Outcome == services.OutcomeCorrect {
		h.hub.Broadcast(hunt.ID, ws.WSMessage{
			Type: "solve",
			Data: gin.H{
				"team_id":     team.ID,
				"team_name":   team.Name,
				"puzzle_id":   puzzle.ID,
				"puzzle_name": puzzle.Name,
			},
		})
	}

	c.JSON(http.StatusCreated, result)
}
