package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/service"
)

func (s *Server) handleAdminPending(c *gin.Context) {
	review, err := s.svc.Admin().Pending(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (s *Server) handleAdminApprove(c *gin.Context) {
	var in service.ApprovalInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.svc.Admin().Approve(c.Request.Context(), actorFrom(c), in); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
