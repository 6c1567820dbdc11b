package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"washride/pkg/models"
)

type IStorage interface {
	Account() IAccountStorage
	Vehicle() IVehicleStorage
	Trip() ITripStorage
	Booking() IBookingStorage
	Close()
	GetPool() *pgxpool.Pool
}

type IAccountStorage interface {
	Create(ctx context.Context, acc *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetPendingApproval(ctx context.Context) ([]*models.Account, error)

	UpsertDriverProfile(ctx context.Context, p *models.DriverProfile) error
	GetDriverProfile(ctx context.Context, userID int64) (*models.DriverProfile, error)
	UpsertCenterProfile(ctx context.Context, p *models.CenterProfile) error
	GetCenterProfile(ctx context.Context, userID int64) (*models.CenterProfile, error)

	// MarkPendingApproval moves the account to pending_approval. The write
	// is guarded so an account that already passed review is never pulled
	// back; it reports whether a row matched.
	MarkPendingApproval(ctx context.Context, id int64) (bool, error)

	// Decide applies an admin approval decision. Only accounts currently
	// in pending_approval match; it reports whether a row matched.
	Decide(ctx context.Context, id int64, status models.AccountStatus) (bool, error)
}

type IVehicleStorage interface {
	Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error)
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Vehicle, error)
	GetPendingApproval(ctx context.Context) ([]*models.Vehicle, error)
	SetApproved(ctx context.Context, id int64, approved bool) (bool, error)
}

type ITripStorage interface {
	Create(ctx context.Context, t *models.Trip) (*models.Trip, error)
	GetByID(ctx context.Context, id int64) (*models.Trip, error)
	GetOpen(ctx context.Context) ([]*models.Trip, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Trip, error)
	GetByDriver(ctx context.Context, driverID int64) ([]*models.Trip, error)

	// Claim is the single conditional update behind trip acceptance:
	// it matches only while the trip is still open, and returns the
	// updated row, or nil when another driver already won (or the trip
	// never existed). This is the only mutual-exclusion mechanism in the
	// system; never split it into a read followed by a write.
	Claim(ctx context.Context, tripID, driverID int64) (*models.Trip, error)

	// Advance moves the trip along accepted -> in_progress -> completed
	// (or to cancelled) on behalf of its assigned driver. The filter pins
	// both the expected current status and the driver; it reports whether
	// a row matched.
	Advance(ctx context.Context, tripID, driverID int64, from, to models.TripStatus) (bool, error)

	// CancelOpen lets the owner withdraw a trip nobody has claimed yet.
	CancelOpen(ctx context.Context, tripID, ownerID int64) (bool, error)

	DriverEarnings(ctx context.Context, driverID int64) (*models.EarningsSummary, error)
}

type IBookingStorage interface {
	Create(ctx context.Context, b *models.WashBooking) (*models.WashBooking, error)
	GetByID(ctx context.Context, id int64) (*models.WashBooking, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.WashBooking, error)
	GetByCenter(ctx context.Context, centerID int64) ([]*models.WashBooking, error)
	Advance(ctx context.Context, id, centerID int64, from, to models.BookingStatus) (bool, error)
	CancelPending(ctx context.Context, id, ownerID int64) (bool, error)
	CenterEarnings(ctx context.Context, centerID int64) (*models.EarningsSummary, error)
}
