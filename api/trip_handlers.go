package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"washride/pkg/models"
	"washride/service"
)

func (s *Server) handleCreateTrip(c *gin.Context) {
	var in service.TripInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	t, err := s.svc.Trip().Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleOpenTrips(c *gin.Context) {
	trips, err := s.svc.Trip().OpenFeed(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (s *Server) handleMyTrips(c *gin.Context) {
	trips, err := s.svc.Trip().MyTrips(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleAcceptTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := s.svc.Trip().Accept(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type tripStatusReq struct {
	Status models.TripStatus `json:"status"`
}

func (s *Server) handleTripStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var r tripStatusReq
	if err := c.BindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	t, err := s.svc.Trip().Advance(c.Request.Context(), actorFrom(c), id, r.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleEarnings(c *gin.Context) {
	actor := actorFrom(c)
	if actor.Role == models.RoleCenter {
		summary, err := s.svc.Booking().CenterEarnings(c.Request.Context(), actor)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
		return
	}

	summary, err := s.svc.Trip().DriverEarnings(c.Request.Context(), actor)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
