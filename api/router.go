package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"washride/pkg/files"
	"washride/pkg/logger"
	"washride/pkg/token"
	"washride/service"
)

type Server struct {
	svc    service.IServiceManager
	tokens *token.Maker
	files  *files.Store
	log    logger.ILogger
}

func NewServer(svc service.IServiceManager, tokens *token.Maker, fileStore *files.Store, log logger.ILogger) *Server {
	return &Server{
		svc:    svc,
		tokens: tokens,
		files:  fileStore,
		log:    log,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
	}))

	router.Static("/uploads", s.files.Dir())

	router.POST("/auth/register", s.handleRegister)
	router.POST("/auth/login", s.handleLogin)

	api := router.Group("/api")
	api.Use(s.authRequired())
	{
		api.GET("/me", s.handleMe)

		api.POST("/onboarding/driver", s.handleDriverOnboarding)
		api.POST("/onboarding/center", s.handleCenterOnboarding)
		api.POST("/onboarding/owner-vehicle", s.handleOwnerVehicleOnboarding)

		api.POST("/vehicles", s.handleAddVehicle)
		api.GET("/vehicles", s.handleMyVehicles)

		api.GET("/admin/pending", s.handleAdminPending)
		api.POST("/admin/approve", s.handleAdminApprove)

		api.POST("/trips", s.handleCreateTrip)
		api.GET("/trips", s.handleMyTrips)
		api.GET("/trips/open", s.handleOpenTrips)
		api.POST("/trips/:id/accept", s.handleAcceptTrip)
		api.PATCH("/trips/:id/status", s.handleTripStatus)

		api.POST("/bookings", s.handleCreateBooking)
		api.GET("/bookings", s.handleListBookings)
		api.PATCH("/bookings/:id/status", s.handleBookingStatus)

		api.GET("/earnings", s.handleEarnings)

		api.POST("/uploads", s.handleUpload)
	}

	return router
}
