package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhngocbui/ctfzone/internal/dto"
	"github.com/minhngocbui/ctfzone/internal/service"
)

const (
	// SessionHeader carries the opaque session key issued at login.
	SessionHeader = "X-Session-Token"

	CtxSessionKey = "session_key"
	CtxTeamID     = "team_id"
	CtxTeamName   = "team_name"
)

// RequireSession resolves the session header, refreshes its last-seen
// timestamp (every authenticated request is a heartbeat) and attaches the
// owning team to the request context.
func RequireSession(sessionSvc service.SessionService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.GetHeader(SessionHeader)
		if key == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "session token required"})
			return
		}

		session, team, err := sessionSvc.Resolve(key)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid session"})
			return
		}

		// Best effort: a failed heartbeat must not fail the request.
		_ = sessionSvc.Heartbeat(session.SessionKey)

		ctx.Set(CtxSessionKey, session.SessionKey)
		ctx.Set(CtxTeamID, team.ID)
		ctx.Set(CtxTeamName, team.Name)
		ctx.Next()
	}
}

// TeamID pulls the authenticated team out of the request context.
func TeamID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(CtxTeamID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
