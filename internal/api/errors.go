package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rongwang/shiftlog-server/internal/apperr"
	"github.com/rongwang/shiftlog-server/internal/models"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindAuthorization:   http.StatusForbidden,
	apperr.KindState:           http.StatusConflict,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindTransport:       http.StatusBadGateway,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
}

// respondError writes err as an ErrorResponse with the status of its kind.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	_ = c.Error(err)
	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    string(kind),
		Message: apperr.MessageOf(err),
	})
}

// respondBindError reports a request body that failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    string(apperr.KindValidation),
		Message: err.Error(),
	})
}
