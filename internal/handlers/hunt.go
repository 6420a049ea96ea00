package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/PuzzleTechHub/myus/internal/models"
	"github.com/PuzzleTechHub/myus/internal/services"

	"github.com/gin-gonic/gin"
)

type HuntHandler struct {
	huntService        *services.HuntService
	progressService    *services.ProgressService
	teamService        *services.TeamService
	leaderboardService *services.LeaderboardService
}

func NewHuntHandler(
	huntService *services.HuntService,
	progressService *services.ProgressService,
	teamService *services.TeamService,
	leaderboardService *services.LeaderboardService,
) *HuntHandler {
	return &HuntHandler{
		huntService:        huntService,
		progressService:    progressService,
		teamService:        teamService,
		leaderboardService: leaderboardService,
	}
}

type HuntRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=500" example:"Galactic Hunt"`
	Description   string     `json:"description" example:"A hunt about space."`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	ProgressFloor int        `json:"progress_floor" binding:"min=0"`
	MemberLimit   int        `json:"member_limit" binding:"min=0"`
	GuessLimit    *int       `json:"guess_limit"`
}

type HuntView struct {
	Hunt        models.Hunt           `json:"hunt"`
	Puzzles     []services.PuzzleView `json:"puzzles"`
	Team        *models.Team          `json:"team,omitempty"`
	Progress    int                   `json:"progress"`
	IsOrganizer bool                  `json:"is_organizer"`
}

// ListHunts godoc
// @Summary      List hunts
// @Description  Get all hunts, newest first
// @Tags         hunts
// @Produce      json
// @Success      200 {array} Hunt
// @Router       /api/v1/hunts [get]
func (h *HuntHandler) ListHunts(c *gin.Context) {
	hunts, err := h.huntService.ListHunts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hunts)
}

// CreateHunt godoc
// @Summary      Create a hunt
// @Description  Create a new hunt; the creator becomes an organizer
// @Tags         hunts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body HuntRequest true "Hunt data"
// @Success      201 {object} Hunt
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/hunts [post]
func (h *HuntHandler) CreateHunt(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req HuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	hunt, err := h.huntService.CreateHunt(userID, services.HuntInput{
		Name:          req.Name,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ProgressFloor: req.ProgressFloor,
		MemberLimit:   req.MemberLimit,
		GuessLimit:    req.GuessLimit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hunt)
}

// GetHunt godoc
// @Summary      View a hunt
// @Description  Get a hunt with the puzzles visible to the caller: organizers see everything, team members their unlocked set, anonymous viewers the public set
// @Tags         hunts
// @Produce      json
// @Param        id path int true "Hunt ID"
// @Success      200 {object} HuntView
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/hunts/{id} [get]
func (h *HuntHandler) GetHunt(c *gin.Context) {
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	hunt, err := h.huntService.GetHunt(uint(huntID))
	if err != nil {
		respondError(c, err)
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

	puzzles, err := h.progressService.VisiblePuzzles(hunt, team, isOrganizer)
	if err != nil {
		respondError(c, err)
		return
	}
	progress, err := h.progressService.Progress(hunt, team)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, HuntView{
		Hunt:        *hunt,
		Puzzles:     puzzles,
		Team:        team,
		Progress:    progress,
		IsOrganizer: isOrganizer,
	})
}

// UpdateHunt godoc
// @Summary      Update a hunt
// @Description  Edit hunt settings; the progress floor can only be raised
// @Tags         hunts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Hunt ID"
// @Param        request body HuntRequest true "Hunt data"
// @Success      200 {object} Hunt
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/hunts/{id} [put]
func (h *HuntHandler) UpdateHunt(c *gin.Context) {
	userID := c.GetUint("user_id")
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	var req HuntRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	hunt, err := h.huntService.UpdateHunt(uint(huntID), userID, services.HuntInput{
		Name:          req.Name,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		ProgressFloor: req.ProgressFloor,
		MemberLimit:   req.MemberLimit,
		GuessLimit:    req.GuessLimit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, hunt)
}

// GetLeaderboard godoc
// @Summary      Get leaderboard
// @Description  Rank teams by score, solve count, then earliest last solve
// @Tags         hunts
// @Produce      json
// @Param        id path int true "Hunt ID"
// @Success      200 {array} services.LeaderboardEntry
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/hunts/{id}/leaderboard [get]
func (h *HuntHandler) GetLeaderboard(c *gin.Context) {
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	if _, err := h.huntService.GetHunt(uint(huntID)); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(uint(huntID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
