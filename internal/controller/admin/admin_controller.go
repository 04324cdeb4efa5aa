package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minhngocbui/ctfzone/internal/controller"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/service"
)

// AdminController is the operator surface: provisioning teams and zones,
// minting access codes, assigning scores, importing rosters and the
// force-exit lever. Deployment is expected to shield these routes.
type AdminController struct {
	teamSvc       service.TeamService
	zoneBoardSvc  service.ZoneBoardService
	codeMintSvc   service.CodeMintService
	scoreboardSvc service.ScoreboardService
	attemptSvc    service.AttemptService
}

func NewAdminController(
	teamSvc service.TeamService,
	zoneBoardSvc service.ZoneBoardService,
	codeMintSvc service.CodeMintService,
	scoreboardSvc service.ScoreboardService,
	attemptSvc service.AttemptService,
) *AdminController {
	return &AdminController{
		teamSvc:       teamSvc,
		zoneBoardSvc:  zoneBoardSvc,
		codeMintSvc:   codeMintSvc,
		scoreboardSvc: scoreboardSvc,
		attemptSvc:    attemptSvc,
	}
}

// CreateTeam godoc
// @Summary (Admin) Create a team with its players, login and score record
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateTeamRequest true "Team and players"
// @Success 201 {object} dto.TeamCredentials "Generated one-time credentials"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Name or role already taken"
// @Router /admin/teams [post]
func (c *AdminController) CreateTeam(ctx *gin.Context) {
	var req dto.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	creds, err := c.teamSvc.CreateTeam(req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, creds)
}

// ListTeams godoc
// @Summary (Admin) List teams with players
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.TeamResponse
// @Router /admin/teams [get]
func (c *AdminController) ListTeams(ctx *gin.Context) {
	teams, err := c.teamSvc.ListTeams()
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, teams)
}

// RenameTeam godoc
// @Summary (Admin) Rename a team, syncing its login username
// @Tags Admin
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param request body dto.RenameTeamRequest true "New name"
// @Success 200 {object} dto.TeamResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/teams/{team_id} [put]
func (c *AdminController) RenameTeam(ctx *gin.Context) {
	teamID, err := strconv.ParseUint(ctx.Param("team_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid team ID format"})
		return
	}
	var req dto.RenameTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	team, err := c.teamSvc.RenameTeam(uint(teamID), req.Name)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, team)
}

// ImportRoster godoc
// @Summary (Admin) Import teams and players from a CSV roster
// @Description Expects columns team_name, player_name, role. Returns generated credentials.
// @Tags Admin
// @Accept text/csv
// @Produce json
// @Success 201 {object} dto.RosterImportResult
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/roster/import [post]
func (c *AdminController) ImportRoster(ctx *gin.Context) {
	result, err := c.teamSvc.ImportRoster(ctx.Request.Body)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	log.Info().Int("teams", result.TeamsCreated).Msg("ImportRoster: roster imported")
	ctx.JSON(http.StatusCreated, result)
}

// CreateZone godoc
// @Summary (Admin) Create a zone
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateZoneRequest true "Zone"
// @Success 201 {object} dto.ZoneResponse
// @Router /admin/zones [post]
func (c *AdminController) CreateZone(ctx *gin.Context) {
	var req dto.CreateZoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	zone, err := c.zoneBoardSvc.CreateZone(req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, zone)
}

// UpsertZoneContent godoc
// @Summary (Admin) Set the role-keyed content and exit code for a zone
// @Tags Admin
// @Accept json
// @Produce json
// @Param zone_id path int true "Zone ID"
// @Param request body dto.UpsertZoneContentRequest true "Content"
// @Success 204 "Content saved"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/zones/{zone_id}/content [put]
func (c *AdminController) UpsertZoneContent(ctx *gin.Context) {
	zoneID, err := strconv.ParseUint(ctx.Param("zone_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid zone ID format"})
		return
	}
	var req dto.UpsertZoneContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.zoneBoardSvc.UpsertContent(uint(zoneID), req); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// MintCodes godoc
// @Summary (Admin) Mint one access code per player for a zone
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.MintCodesRequest true "Team and zone"
// @Success 201 {array} dto.AccessCodeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/codes [post]
func (c *AdminController) MintCodes(ctx *gin.Context) {
	var req dto.MintCodesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	codes, err := c.codeMintSvc.MintForTeamZone(req.TeamID, req.ZoneID)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, codes)
}

// ListTeamCodes godoc
// @Summary (Admin) List a team's access codes
// @Tags Admin
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {array} dto.AccessCodeResponse
// @Router /admin/teams/{team_id}/codes [get]
func (c *AdminController) ListTeamCodes(ctx *gin.Context) {
	teamID, err := strconv.ParseUint(ctx.Param("team_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid team ID format"})
		return
	}

	codes, err := c.codeMintSvc.ListForTeam(uint(teamID))
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, codes)
}

// SetZonePoints godoc
// @Summary (Admin) Assign a team's points for a zone
// @Tags Admin
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param request body dto.SetZonePointsRequest true "Zone and points"
// @Success 204 "Points assigned"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/teams/{team_id}/score [put]
func (c *AdminController) SetZonePoints(ctx *gin.Context) {
	teamID, err := strconv.ParseUint(ctx.Param("team_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid team ID format"})
		return
	}
	var req dto.SetZonePointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.scoreboardSvc.AssignZonePoints(uint(teamID), req.ZoneID, req.Points); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SetCredit godoc
// @Summary (Admin) Set a team's tie-break credit
// @Tags Admin
// @Accept json
// @Produce json
// @Param team_id path int true "Team ID"
// @Param request body dto.SetCreditRequest true "Credit"
// @Success 204 "Credit assigned"
// @Failure 400 {object} dto.ErrorResponse "Credit must be non-negative"
// @Router /admin/teams/{team_id}/credit [put]
func (c *AdminController) SetCredit(ctx *gin.Context) {
	teamID, err := strconv.ParseUint(ctx.Param("team_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid team ID format"})
		return
	}
	var req dto.SetCreditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.scoreboardSvc.AssignCredit(uint(teamID), req.Credit); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ForceExitTeam godoc
// @Summary (Admin) Force-exit every active attempt a team has
// @Tags Admin
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} map[string]int "Count of terminated attempts"
// @Router /admin/teams/{team_id}/force-exit [post]
func (c *AdminController) ForceExitTeam(ctx *gin.Context) {
	teamID, err := strconv.ParseUint(ctx.Param("team_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid team ID format"})
		return
	}

	ended, err := c.attemptSvc.ForceExitAllActive(uint(teamID))
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"terminated": ended})
}
