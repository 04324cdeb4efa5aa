package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minhngocbui/ctfzone/internal/controller"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/middleware"
	"github.com/minhngocbui/ctfzone/internal/service"
)

// TeamController handles team login/logout and the authenticated zone board.
type TeamController struct {
	sessionSvc   service.SessionService
	zoneBoardSvc service.ZoneBoardService
}

func NewTeamController(sessionSvc service.SessionService, zoneBoardSvc service.ZoneBoardService) *TeamController {
	return &TeamController{sessionSvc: sessionSvc, zoneBoardSvc: zoneBoardSvc}
}

// Login godoc
// @Summary Team login, capped at a fixed number of concurrent sessions
// @Tags Team
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Team credentials"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Maximum concurrent sessions reached"
// @Router /login [post]
func (c *TeamController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.sessionSvc.Admit(req.Username, req.Password)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// Logout godoc
// @Summary End the session; all of the team's active attempts are force-exited
// @Tags Team
// @Produce json
// @Security SessionToken
// @Success 204 "Session revoked"
// @Failure 401 {object} dto.ErrorResponse
// @Router /logout [post]
func (c *TeamController) Logout(ctx *gin.Context) {
	key := ctx.GetString(middleware.CtxSessionKey)
	if err := c.sessionSvc.Revoke(key); err != nil {
		log.Error().Err(err).Msg("Logout: revoke failed")
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GetZoneBoard godoc
// @Summary The team's per-zone progress board
// @Tags Team
// @Produce json
// @Security SessionToken
// @Success 200 {array} dto.ZoneStatus
// @Failure 401 {object} dto.ErrorResponse
// @Router /zones [get]
func (c *TeamController) GetZoneBoard(ctx *gin.Context) {
	teamID, ok := middleware.TeamID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "session required"})
		return
	}

	board, err := c.zoneBoardSvc.Board(teamID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}
