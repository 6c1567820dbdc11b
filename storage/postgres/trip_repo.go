package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/storage"
)

type tripRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewTripRepo(db *pgxpool.Pool, log logger.ILogger) storage.ITripStorage {
	return &tripRepo{db: db, log: log}
}

const tripColumns = `id, owner_id, pickup_address, dropoff_address, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, price, currency, note, status, assigned_driver_id, created_at, updated_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var t models.Trip
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.PickupAddress, &t.DropoffAddress,
		&t.PickupLat, &t.PickupLng, &t.DropoffLat, &t.DropoffLng,
		&t.Price, &t.Currency, &t.Note, &t.Status, &t.AssignedDriverID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tripRepo) Create(ctx context.Context, t *models.Trip) (*models.Trip, error) {
	query := `
		INSERT INTO trips (owner_id, pickup_address, dropoff_address, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, price, currency, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'open')
		RETURNING ` + tripColumns
	created, err := scanTrip(r.db.QueryRow(ctx, query,
		t.OwnerID, t.PickupAddress, t.DropoffAddress,
		t.PickupLat, t.PickupLng, t.DropoffLat, t.DropoffLng,
		t.Price, t.Currency, t.Note,
	))
	if err != nil {
		r.log.Error("failed to create trip", logger.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *tripRepo) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	t, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get trip by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *tripRepo) GetOpen(ctx context.Context) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = 'open' ORDER BY created_at DESC`
	return r.scanTrips(ctx, query)
}

func (r *tripRepo) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.scanTrips(ctx, query, ownerID)
}

func (r *tripRepo) GetByDriver(ctx context.Context, driverID int64) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE assigned_driver_id = $1 ORDER BY created_at DESC`
	return r.scanTrips(ctx, query, driverID)
}

func (r *tripRepo) scanTrips(ctx context.Context, query string, args ...interface{}) ([]*models.Trip, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// Claim assigns the trip to driverID iff it is still open. The whole race
// rides on this one statement: the row-level filter on status is what
// guarantees at most one winner. No rows back means someone else already
// took it, or the trip never existed; callers get nil and cannot tell the
// two apart.
func (r *tripRepo) Claim(ctx context.Context, tripID, driverID int64) (*models.Trip, error) {
	query := `
		UPDATE trips SET status = 'accepted', assigned_driver_id = $1, updated_at = now()
		WHERE id = $2 AND status = 'open'
		RETURNING ` + tripColumns
	t, err := scanTrip(r.db.QueryRow(ctx, query, driverID, tripID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to claim trip", logger.Int64("trip_id", tripID), logger.Error(err))
		return nil, err
	}
	return t, nil
}

// Advance clears the assignment on cancellation so a driver reference
// only ever appears on accepted, in-progress or completed trips.
func (r *tripRepo) Advance(ctx context.Context, tripID, driverID int64, from, to models.TripStatus) (bool, error) {
	query := `UPDATE trips SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3 AND assigned_driver_id = $4`
	if to == models.TripCancelled {
		query = `UPDATE trips SET status = $1, assigned_driver_id = NULL, updated_at = now()
		 WHERE id = $2 AND status = $3 AND assigned_driver_id = $4`
	}
	res, err := r.db.Exec(ctx, query, to, tripID, from, driverID)
	if err != nil {
		r.log.Error("failed to advance trip", logger.Int64("trip_id", tripID), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *tripRepo) CancelOpen(ctx context.Context, tripID, ownerID int64) (bool, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE trips SET status = 'cancelled', updated_at = now()
		 WHERE id = $1 AND status = 'open' AND owner_id = $2`,
		tripID, ownerID)
	if err != nil {
		r.log.Error("failed to cancel trip", logger.Int64("trip_id", tripID), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *tripRepo) DriverEarnings(ctx context.Context, driverID int64) (*models.EarningsSummary, error) {
	summary := &models.EarningsSummary{}

	err := r.db.QueryRow(ctx,
		`SELECT count(*), COALESCE(sum(price), 0) FROM trips
		 WHERE assigned_driver_id = $1 AND status = 'completed'`,
		driverID).Scan(&summary.TotalCompleted, &summary.TotalEarned)
	if err != nil {
		r.log.Error("failed to get driver earnings totals", logger.Error(err))
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT to_char(updated_at, 'YYYY-MM-DD') AS day, count(*), sum(price) FROM trips
		 WHERE assigned_driver_id = $1 AND status = 'completed'
		 GROUP BY day ORDER BY day DESC LIMIT 30`,
		driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d models.DailyEarning
		if err := rows.Scan(&d.Day, &d.Count, &d.Total); err != nil {
			return nil, err
		}
		summary.Daily = append(summary.Daily, d)
	}
	return summary, rows.Err()
}
