package service

import (
	"context"
	"time"

	"washride/pkg/apperr"
	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/pkg/token"
	"washride/storage"
)

type BookingInput struct {
	CenterID    int64     `json:"center_id"`
	VehicleID   int64     `json:"vehicle_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Price       int64     `json:"price"`
	Note        string    `json:"note"`
}

type BookingService interface {
	Create(ctx context.Context, actor *token.Claims, in BookingInput) (*models.WashBooking, error)
	List(ctx context.Context, actor *token.Claims) ([]*models.WashBooking, error)
	Advance(ctx context.Context, actor *token.Claims, bookingID int64, to models.BookingStatus) (*models.WashBooking, error)
	CenterEarnings(ctx context.Context, actor *token.Claims) (*models.EarningsSummary, error)
}

type bookingService struct {
	bookings storage.IBookingStorage
	accounts storage.IAccountStorage
	vehicles storage.IVehicleStorage
	log      logger.ILogger
}

func NewBookingService(stg storage.IStorage, log logger.ILogger) BookingService {
	return &bookingService{
		bookings: stg.Booking(),
		accounts: stg.Account(),
		vehicles: stg.Vehicle(),
		log:      log,
	}
}

func (s *bookingService) Create(ctx context.Context, actor *token.Claims, in BookingInput) (*models.WashBooking, error) {
	if err := requireActive(actor, models.RoleOwner, "booking washes"); err != nil {
		return nil, err
	}
	if in.CenterID == 0 || in.VehicleID == 0 {
		return nil, apperr.New(apperr.Validation, "center_id and vehicle_id are required")
	}
	if in.ScheduledAt.IsZero() {
		return nil, apperr.New(apperr.Validation, "scheduled_at is required")
	}

	center, err := s.accounts.GetByID(ctx, in.CenterID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load center", err)
	}
	if center == nil || center.Role != models.RoleCenter {
		return nil, apperr.New(apperr.NotFound, "wash center not found")
	}
	if center.Status != models.StatusActive {
		return nil, apperr.New(apperr.Conflict, "wash center is not active")
	}

	vehicle, err := s.vehicles.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load vehicle", err)
	}
	if vehicle == nil || vehicle.OwnerID != actor.AccountID {
		return nil, apperr.New(apperr.NotFound, "vehicle not found")
	}

	b, err := s.bookings.Create(ctx, &models.WashBooking{
		OwnerID:     actor.AccountID,
		CenterID:    in.CenterID,
		VehicleID:   in.VehicleID,
		ScheduledAt: in.ScheduledAt,
		Price:       in.Price,
		Note:        in.Note,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create booking", err)
	}

	s.log.Info("booking created", logger.Int64("booking_id", b.ID), logger.Int64("center_id", b.CenterID))
	return b, nil
}

func (s *bookingService) List(ctx context.Context, actor *token.Claims) ([]*models.WashBooking, error) {
	var (
		bookings []*models.WashBooking
		err      error
	)
	switch actor.Role {
	case models.RoleOwner:
		bookings, err = s.bookings.GetByOwner(ctx, actor.AccountID)
	case models.RoleCenter:
		bookings, err = s.bookings.GetByCenter(ctx, actor.AccountID)
	default:
		return nil, apperr.New(apperr.Unauthorized, "no bookings for this role")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list bookings", err)
	}
	return bookings, nil
}

var bookingTransitions = map[models.BookingStatus]models.BookingStatus{
	models.BookingConfirmed: models.BookingPending,
	models.BookingCompleted: models.BookingConfirmed,
}

func (s *bookingService) Advance(ctx context.Context, actor *token.Claims, bookingID int64, to models.BookingStatus) (*models.WashBooking, error) {
	// owners may cancel while the booking is still pending
	if actor.Role == models.RoleOwner && to == models.BookingCancelled {
		if actor.Status != models.StatusActive {
			return nil, apperr.New(apperr.Unauthorized, "account is not active")
		}
		ok, err := s.bookings.CancelPending(ctx, bookingID, actor.AccountID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to cancel booking", err)
		}
		if !ok {
			return nil, apperr.New(apperr.Conflict, "booking is not pending or not yours")
		}
		return s.reload(ctx, bookingID)
	}

	if err := requireActive(actor, models.RoleCenter, "updating bookings"); err != nil {
		return nil, err
	}

	var from models.BookingStatus
	switch to {
	case models.BookingConfirmed, models.BookingCompleted:
		from = bookingTransitions[to]
	case models.BookingCancelled:
		from = models.BookingPending
	default:
		return nil, apperr.New(apperr.Validation, "status must be confirmed, completed or cancelled")
	}

	ok, err := s.bookings.Advance(ctx, bookingID, actor.AccountID, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update booking", err)
	}
	if !ok {
		return nil, apperr.New(apperr.Conflict, "booking is not in the expected state for this update")
	}
	return s.reload(ctx, bookingID)
}

func (s *bookingService) reload(ctx context.Context, bookingID int64) (*models.WashBooking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to reload booking", err)
	}
	if b == nil {
		return nil, apperr.New(apperr.NotFound, "booking not found")
	}
	return b, nil
}

func (s *bookingService) CenterEarnings(ctx context.Context, actor *token.Claims) (*models.EarningsSummary, error) {
	if actor.Role != models.RoleCenter {
		return nil, apperr.New(apperr.Unauthorized, "center earnings require a center account")
	}
	summary, err := s.bookings.CenterEarnings(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load earnings", err)
	}
	return summary, nil
}
