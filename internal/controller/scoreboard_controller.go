package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minhngocbui/ctfzone/internal/service"
)

// ScoreboardController serves the public leaderboard and the per-team
// progress timeline. No session is required to read either.
type ScoreboardController struct {
	scoreboardSvc service.ScoreboardService
}

func NewScoreboardController(scoreboardSvc service.ScoreboardService) *ScoreboardController {
	return &ScoreboardController{scoreboardSvc: scoreboardSvc}
}

// GetLeaderboard godoc
// @Summary Leaderboard ranked by total score, credit breaking ties
// @Tags Scoreboard
// @Produce json
// @Success 200 {array} dto.LeaderboardEntry
// @Failure 500 {object} dto.ErrorResponse
// @Router /leaderboard [get]
func (c *ScoreboardController) GetLeaderboard(ctx *gin.Context) {
	entries, err := c.scoreboardSvc.Leaderboard()
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: service error")
		WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// GetTimeline godoc
// @Summary Cumulative score over time per team
// @Tags Scoreboard
// @Produce json
// @Success 200 {array} dto.TeamTimeline
// @Failure 500 {object} dto.ErrorResponse
// @Router /timeline [get]
func (c *ScoreboardController) GetTimeline(ctx *gin.Context) {
	series, err := c.scoreboardSvc.Timeline()
	if err != nil {
		log.Error().Err(err).Msg("GetTimeline: service error")
		WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, series)
}
