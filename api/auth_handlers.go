package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/service"
)

func (s *Server) handleRegister(c *gin.Context) {
	var in service.RegisterInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	acc, err := s.svc.Auth().Register(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, acc)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var r loginReq
	if err := c.BindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tok, acc, err := s.svc.Auth().Login(c.Request.Context(), r.Email, r.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok, "account": acc})
}

func (s *Server) handleMe(c *gin.Context) {
	acc, err := s.svc.Account().Me(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}
