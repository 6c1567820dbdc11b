package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"washride/pkg/models"
	"washride/service"
)

func (s *Server) handleCreateBooking(c *gin.Context) {
	var in service.BookingInput
	if err := c.BindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	b, err := s.svc.Booking().Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (s *Server) handleListBookings(c *gin.Context) {
	bookings, err := s.svc.Booking().List(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type bookingStatusReq struct {
	Status models.BookingStatus `json:"status"`
}

func (s *Server) handleBookingStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var r bookingStatusReq
	if err := c.BindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	b, err := s.svc.Booking().Advance(c.Request.Context(), actorFrom(c), id, r.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
