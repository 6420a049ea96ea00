package handlers

import (
	"errors"
	"net/http"

	"github.com/PuzzleTechHub/myus/internal/models"
	"github.com/PuzzleTechHub/myus/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Hunt = models.Hunt
type Puzzle = models.Puzzle
type Team = models.Team
type Guess = models.Guess

// respondError maps domain errors onto HTTP statuses: not-found lookups to
// 404, authorization to 403, rule violations to 409, bad input to 400.
// Everything else is an unexpected storage fault.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHuntNotFound),
		errors.Is(err, services.ErrPuzzleNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPuzzleLocked):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNotOrganizer):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrEmptyGuess),
		errors.Is(err, services.ErrFloorDecrease):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrAlreadySolved),
		errors.Is(err, services.ErrLimitReached),
		errors.Is(err, services.ErrDuplicateGuess),
		errors.Is(err, services.ErrAlreadyOnTeam),
		errors.Is(err, services.ErrNotOnTeam),
		errors.Is(err, services.ErrTeamNameTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyInvited),
		errors.Is(err, services.ErrOrganizerInvite),
		errors.Is(err, services.ErrNoInvite),
		errors.Is(err, services.ErrTeamFull):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// viewerID returns the authenticated user's ID, or 0 for anonymous
// requests that passed through the optional auth middleware.
func viewerID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
