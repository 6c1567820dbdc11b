package service

import (
	"washride/pkg/logger"
	"washride/pkg/notify"
	"washride/pkg/token"
	"washride/storage"
)

type IServiceManager interface {
	Auth() AuthService
	Account() AccountService
	Admin() AdminService
	Trip() TripService
	Booking() BookingService
}

type service struct {
	authService    AuthService
	accountService AccountService
	adminService   AdminService
	tripService    TripService
	bookingService BookingService
}

func New(stg storage.IStorage, cache Cache, tokens *token.Maker, notifier *notify.Notifier, log logger.ILogger) IServiceManager {
	return &service{
		authService:    NewAuthService(stg, tokens, log),
		accountService: NewAccountService(stg, notifier, log),
		adminService:   NewAdminService(stg, log),
		tripService:    NewTripService(stg, cache, notifier, log),
		bookingService: NewBookingService(stg, log),
	}
}

func (s *service) Auth() AuthService       { return s.authService }
func (s *service) Account() AccountService { return s.accountService }
func (s *service) Admin() AdminService     { return s.adminService }
func (s *service) Trip() TripService       { return s.tripService }
func (s *service) Booking() BookingService { return s.bookingService }
