package player

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minhngocbui/ctfzone/internal/controller"
	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/service"
)

// PlayerController is the player-facing surface: redeeming an access code,
// viewing zone content for an active attempt and submitting the zone. None of
// these require a team session; the access code is the player's credential.
type PlayerController struct {
	zoneAccessSvc service.ZoneAccessService
	attemptSvc    service.AttemptService
	zoneBoardSvc  service.ZoneBoardService
}

func NewPlayerController(
	zoneAccessSvc service.ZoneAccessService,
	attemptSvc service.AttemptService,
	zoneBoardSvc service.ZoneBoardService,
) *PlayerController {
	return &PlayerController{
		zoneAccessSvc: zoneAccessSvc,
		attemptSvc:    attemptSvc,
		zoneBoardSvc:  zoneBoardSvc,
	}
}

// RedeemCode godoc
// @Summary Redeem a one-time access code to start a zone attempt
// @Tags Player
// @Accept json
// @Produce json
// @Param request body dto.RedeemCodeRequest true "Access code"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Code missing"
// @Failure 404 {object} dto.ErrorResponse "Invalid or already used code"
// @Failure 409 {object} dto.ErrorResponse "Player already attempted this zone"
// @Router /enter [post]
func (c *PlayerController) RedeemCode(ctx *gin.Context) {
	var req dto.RedeemCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.zoneAccessSvc.Redeem(req.Code)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	log.Info().Uint("attemptID", attempt.ID).Msg("RedeemCode: attempt started")
	ctx.JSON(http.StatusCreated, attempt)
}

// PlayZone godoc
// @Summary Zone content for the player's role, for an active attempt
// @Tags Player
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.ZonePlayResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/play [get]
func (c *PlayerController) PlayZone(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}

	play, err := c.zoneBoardSvc.Play(uint(attemptID))
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, play)
}

// CompleteAttempt godoc
// @Summary Submit the zone, completing the attempt
// @Description When the zone content declares an exit code the submitted code
// @Description must match exactly. Completing an already-terminal attempt is a no-op.
// @Tags Player
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param request body dto.CompleteAttemptRequest false "Submitted exit code"
// @Success 200 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Incorrect exit code"
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id}/complete [post]
func (c *PlayerController) CompleteAttempt(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt ID format"})
		return
	}

	var req dto.CompleteAttemptRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
			return
		}
	}

	attempt, err := c.attemptSvc.Complete(uint(attemptID), req.ExitCode)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}
