package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindNotFound: http.StatusNotFound,
	apperror.KindConflict: http.StatusConflict,
	apperror.KindCapacity: http.StatusServiceUnavailable,
	apperror.KindOverflow: http.StatusInternalServerError,
	apperror.KindFunds:    http.StatusPaymentRequired,
	apperror.KindInternal: http.StatusInternalServerError,
}

func statusOf(err error) int {
	return statusByKind[apperror.KindOf(err)]
}

func (that *Handlers) respondError(ctx *gin.Context, method string, err error) {
	kind := apperror.KindOf(err)
	status := statusOf(err)

	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	ctx.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
