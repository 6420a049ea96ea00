package handlers

import (
	"net/http"
	"strconv"

	"github.com/PuzzleTechHub/myus/internal/services"
	"github.com/PuzzleTechHub/myus/internal/ws"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	huntService     *services.HuntService
	progressService *services.ProgressService
	teamService     *services.TeamService
	hub             *ws.Hub
}

func NewTeamHandler(
	huntService *services.HuntService,
	progressService *services.ProgressService,
	teamService *services.TeamService,
	hub *ws.Hub,
) *TeamHandler {
	return &TeamHandler{
		huntService:     huntService,
		progressService: progressService,
		teamService:     teamService,
		hub:             hub,
	}
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=1,max=500" example:"The Cryptic Crew"`
}

// CreateTeam godoc
// @Summary      Create a team
// @Description  Create a team for a hunt; the creator becomes its first member
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Hunt ID"
// @Param        request body CreateTeamRequest true "Team data"
// @Success      201 {object} Team
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/hunts/{id}/teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID := c.GetUint("user_id")
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teamService.CreateTeam(uint(huntID), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hub.Broadcast(uint(huntID), ws.WSMessage{
		Type: "team_created",
		Data: gin.H{"team_id": team.ID, "team_name": team.Name},
	})

	c.JSON(http.StatusCreated, team)
}

type MyTeamView struct {
	Team     Team `json:"team"`
	Progress int  `json:"progress"`
}

// GetMyTeam godoc
// @Summary      Get the caller's team
// @Description  Get the team the caller belongs to in this hunt, with its progress points
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Hunt ID"
// @Success      200 {object} MyTeamView
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/hunts/{id}/team [get]
func (h *TeamHandler) GetMyTeam(c *gin.Context) {
	userID := c.GetUint("user_id")
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

	team, err := h.teamService.TeamForUser(hunt.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	progress, err := h.progressService.Progress(hunt, team)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MyTeamView{Team: *team, Progress: progress})
}

type InviteRequest struct {
	Username string `json:"username" binding:"required" example:"solver2"`
}

// InviteMember godoc
// @Summary      Invite a user to a team
// @Description  Invite a user by username; organizers, existing members and already-invited users are rejected
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Team ID"
// @Param        request body InviteRequest true "Invitee"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/teams/{id}/invite [post]
func (h *TeamHandler) InviteMember(c *gin.Context) {
	userID := c.GetUint("user_id")
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team id"})
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.teamService.InviteMember(uint(teamID), userID, req.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "invitation sent"})
}

type AcceptInviteRequest struct {
	TeamID uint `json:"team_id" binding:"required" example:"1"`
}

// AcceptInvite godoc
// @Summary      Accept a team invitation
// @Description  Join the inviting team; fails without an invite or when already on a team in this hunt
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Hunt ID"
// @Param        request body AcceptInviteRequest true "Inviting team"
// @Success      200 {object} Team
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/hunts/{id}/invites/accept [post]
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	userID := c.GetUint("user_id")
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teamService.AcceptInvite(req.TeamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if team.HuntID != uint(huntID) {
		respondError(c, services.ErrTeamNotFound)
		return
	}

	c.JSON(http.StatusOK, team)
}

// ListInvites godoc
// @Summary      List the caller's invitations
// @Description  Get the teams that have invited the caller in this hunt
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Hunt ID"
// @Success      200 {array} Team
// @Router       /api/v1/hunts/{id}/invites [get]
func (h *TeamHandler) ListInvites(c *gin.Context) {
	userID := c.GetUint("user_id")
	huntID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid hunt id"})
		return
	}

	teams, err := h.teamService.ListInvites(uint(huntID), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}
