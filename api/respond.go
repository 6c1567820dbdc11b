package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/pkg/apperr"
	"washride/pkg/logger"
)

var kindStatus = map[apperr.Kind]int{
	apperr.Unauthenticated: http.StatusUnauthorized,
	apperr.Unauthorized:    http.StatusForbidden,
	apperr.NotFound:        http.StatusNotFound,
	apperr.Conflict:        http.StatusConflict,
	apperr.Validation:      http.StatusBadRequest,
	apperr.Internal:        http.StatusInternalServerError,
}

// fail maps an error to its HTTP status. Internal errors are logged with
// full detail and surfaced opaquely.
func (s *Server) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		s.log.Error("request failed",
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
	}
	c.JSON(kindStatus[kind], gin.H{"error": apperr.Message(err)})
}
