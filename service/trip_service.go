package service

import (
	"context"
	"encoding/json"
	"time"

	"washride/pkg/apperr"
	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/pkg/notify"
	"washride/pkg/token"
	"washride/storage"
)

const (
	openFeedKey = "trips:open"
	openFeedTTL = 15 * time.Second
)

type TripInput struct {
	PickupAddress  string  `json:"pickup_address"`
	DropoffAddress string  `json:"dropoff_address"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropoffLat     float64 `json:"dropoff_lat"`
	DropoffLng     float64 `json:"dropoff_lng"`
	Price          int64   `json:"price"`
	Currency       string  `json:"currency"`
	Note           string  `json:"note"`
}

type TripService interface {
	Create(ctx context.Context, actor *token.Claims, in TripInput) (*models.Trip, error)
	OpenFeed(ctx context.Context, actor *token.Claims) ([]*models.Trip, error)
	Accept(ctx context.Context, actor *token.Claims, tripID int64) (*models.Trip, error)
	Advance(ctx context.Context, actor *token.Claims, tripID int64, to models.TripStatus) (*models.Trip, error)
	MyTrips(ctx context.Context, actor *token.Claims) ([]*models.Trip, error)
	DriverEarnings(ctx context.Context, actor *token.Claims) (*models.EarningsSummary, error)
}

type tripService struct {
	trips    storage.ITripStorage
	cache    Cache
	notifier *notify.Notifier
	log      logger.ILogger
}

func NewTripService(stg storage.IStorage, cache Cache, notifier *notify.Notifier, log logger.ILogger) TripService {
	return &tripService{
		trips:    stg.Trip(),
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

func requireActive(actor *token.Claims, role models.Role, what string) error {
	if actor.Role != role {
		return apperr.New(apperr.Unauthorized, "wrong role for "+what)
	}
	if actor.Status != models.StatusActive {
		return apperr.New(apperr.Unauthorized, "account is not active")
	}
	return nil
}

func (s *tripService) Create(ctx context.Context, actor *token.Claims, in TripInput) (*models.Trip, error) {
	if err := requireActive(actor, models.RoleOwner, "creating trips"); err != nil {
		return nil, err
	}
	if in.PickupAddress == "" || in.DropoffAddress == "" {
		return nil, apperr.New(apperr.Validation, "pickup_address and dropoff_address are required")
	}
	if in.Price < 0 {
		return nil, apperr.New(apperr.Validation, "price must not be negative")
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	t, err := s.trips.Create(ctx, &models.Trip{
		OwnerID:        actor.AccountID,
		PickupAddress:  in.PickupAddress,
		DropoffAddress: in.DropoffAddress,
		PickupLat:      in.PickupLat,
		PickupLng:      in.PickupLng,
		DropoffLat:     in.DropoffLat,
		DropoffLng:     in.DropoffLng,
		Price:          in.Price,
		Currency:       in.Currency,
		Note:           in.Note,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create trip", err)
	}

	s.dropOpenFeed(ctx)
	s.notifier.TripCreated(t)
	s.log.Info("trip created", logger.Int64("trip_id", t.ID), logger.Int64("owner_id", t.OwnerID))
	return t, nil
}

// OpenFeed serves drivers the current open trips, cache-aside with a
// short TTL. Staleness here is harmless: accepting always goes through
// the conditional update in the store.
func (s *tripService) OpenFeed(ctx context.Context, actor *token.Claims) ([]*models.Trip, error) {
	if err := requireActive(actor, models.RoleDriver, "browsing open trips"); err != nil {
		return nil, err
	}

	if cached, err := s.cache.Get(ctx, openFeedKey); err == nil && cached != "" {
		var trips []*models.Trip
		if json.Unmarshal([]byte(cached), &trips) == nil {
			return trips, nil
		}
	}

	trips, err := s.trips.GetOpen(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load open trips", err)
	}

	if payload, err := json.Marshal(trips); err == nil {
		if err := s.cache.Set(ctx, openFeedKey, string(payload), openFeedTTL); err != nil {
			s.log.Warning("open feed cache set failed", logger.Error(err))
		}
	}
	return trips, nil
}

// Accept runs the claim. Exactly one concurrent caller gets the trip; the
// rest get Conflict and are expected to pick another trip from the feed.
func (s *tripService) Accept(ctx context.Context, actor *token.Claims, tripID int64) (*models.Trip, error) {
	if err := requireActive(actor, models.RoleDriver, "accepting trips"); err != nil {
		return nil, err
	}

	t, err := s.trips.Claim(ctx, tripID, actor.AccountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to claim trip", err)
	}
	if t == nil {
		return nil, apperr.New(apperr.Conflict, "trip already taken or not available")
	}

	s.dropOpenFeed(ctx)
	s.log.Info("trip claimed", logger.Int64("trip_id", t.ID), logger.Int64("driver_id", actor.AccountID))
	return t, nil
}

var tripTransitions = map[models.TripStatus]models.TripStatus{
	models.TripInProgress: models.TripAccepted,
	models.TripCompleted:  models.TripInProgress,
}

func (s *tripService) Advance(ctx context.Context, actor *token.Claims, tripID int64, to models.TripStatus) (*models.Trip, error) {
	// owners may withdraw a trip nobody has claimed yet
	if actor.Role == models.RoleOwner && to == models.TripCancelled {
		return s.ownerCancel(ctx, actor, tripID)
	}

	if err := requireActive(actor, models.RoleDriver, "updating trips"); err != nil {
		return nil, err
	}

	var from models.TripStatus
	switch to {
	case models.TripInProgress, models.TripCompleted:
		from = tripTransitions[to]
	case models.TripCancelled:
		// a driver may back out before or during the ride
		if ok, err := s.advance(ctx, tripID, actor.AccountID, models.TripAccepted, to); err != nil {
			return nil, err
		} else if ok {
			return s.reload(ctx, tripID)
		}
		from = models.TripInProgress
	default:
		return nil, apperr.New(apperr.Validation, "status must be in_progress, completed or cancelled")
	}

	ok, err := s.advance(ctx, tripID, actor.AccountID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.Conflict, "trip is not in the expected state for this update")
	}
	return s.reload(ctx, tripID)
}

func (s *tripService) advance(ctx context.Context, tripID, driverID int64, from, to models.TripStatus) (bool, error) {
	ok, err := s.trips.Advance(ctx, tripID, driverID, from, to)
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "failed to update trip", err)
	}
	return ok, nil
}

func (s *tripService) ownerCancel(ctx context.Context, actor *token.Claims, tripID int64) (*models.Trip, error) {
	if actor.Status != models.StatusActive {
		return nil, apperr.New(apperr.Unauthorized, "account is not active")
	}
	ok, err := s.trips.CancelOpen(ctx, tripID, actor.AccountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to cancel trip", err)
	}
	if !ok {
		return nil, apperr.New(apperr.Conflict, "trip is not open or not yours")
	}
	s.dropOpenFeed(ctx)
	return s.reload(ctx, tripID)
}

func (s *tripService) reload(ctx context.Context, tripID int64) (*models.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to reload trip", err)
	}
	if t == nil {
		return nil, apperr.New(apperr.NotFound, "trip not found")
	}
	return t, nil
}

func (s *tripService) MyTrips(ctx context.Context, actor *token.Claims) ([]*models.Trip, error) {
	var (
		trips []*models.Trip
		err   error
	)
	switch actor.Role {
	case models.RoleOwner:
		trips, err = s.trips.GetByOwner(ctx, actor.AccountID)
	case models.RoleDriver:
		trips, err = s.trips.GetByDriver(ctx, actor.AccountID)
	default:
		return nil, apperr.New(apperr.Unauthorized, "no trips for this role")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list trips", err)
	}
	return trips, nil
}

func (s *tripService) DriverEarnings(ctx context.Context, actor *token.Claims) (*models.EarningsSummary, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperr.New(apperr.Unauthorized, "driver earnings require a driver account")
	}
	summary, err := s.trips.DriverEarnings(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load earnings", err)
	}
	return summary, nil
}

func (s *tripService) dropOpenFeed(ctx context.Context) {
	if err := s.cache.Del(ctx, openFeedKey); err != nil {
		s.log.Warning("open feed cache invalidation failed", logger.Error(err))
	}
}
