package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minhngocbui/ctfzone/internal/apperr"
	"github.com/minhngocbui/ctfzone/internal/dto"
)

// WriteError translates the error taxonomy to HTTP. Domain errors keep their
// message; anything else (including invariant violations) is reported as an
// opaque internal failure after logging.
func WriteError(ctx *gin.Context, err error) {
	kind, ok := apperr.KindOf(err)
	if !ok || kind == apperr.KindInvariant {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Internal error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindCapacity:
		status = http.StatusForbidden
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
