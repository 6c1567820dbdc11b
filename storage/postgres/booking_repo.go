package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/storage"
)

type bookingRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewBookingRepo(db *pgxpool.Pool, log logger.ILogger) storage.IBookingStorage {
	return &bookingRepo{db: db, log: log}
}

const bookingColumns = `id, owner_id, center_id, vehicle_id, scheduled_at, price, note, status, created_at`

func scanBooking(row pgx.Row) (*models.WashBooking, error) {
	var b models.WashBooking
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.CenterID, &b.VehicleID, &b.ScheduledAt, &b.Price, &b.Note, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *models.WashBooking) (*models.WashBooking, error) {
	query := `
		INSERT INTO wash_bookings (owner_id, center_id, vehicle_id, scheduled_at, price, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING ` + bookingColumns
	created, err := scanBooking(r.db.QueryRow(ctx, query,
		b.OwnerID, b.CenterID, b.VehicleID, b.ScheduledAt, b.Price, b.Note,
	))
	if err != nil {
		r.log.Error("failed to create booking", logger.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*models.WashBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM wash_bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get booking by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return b, nil
}

func (r *bookingRepo) GetByOwner(ctx context.Context, ownerID int64) ([]*models.WashBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM wash_bookings WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.scanBookings(ctx, query, ownerID)
}

func (r *bookingRepo) GetByCenter(ctx context.Context, centerID int64) ([]*models.WashBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM wash_bookings WHERE center_id = $1 ORDER BY scheduled_at`
	return r.scanBookings(ctx, query, centerID)
}

func (r *bookingRepo) scanBookings(ctx context.Context, query string, args ...interface{}) ([]*models.WashBooking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.WashBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) Advance(ctx context.Context, id, centerID int64, from, to models.BookingStatus) (bool, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE wash_bookings SET status = $1 WHERE id = $2 AND status = $3 AND center_id = $4`,
		to, id, from, centerID)
	if err != nil {
		r.log.Error("failed to advance booking", logger.Int64("id", id), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *bookingRepo) CancelPending(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE wash_bookings SET status = 'cancelled' WHERE id = $1 AND status = 'pending' AND owner_id = $2`,
		id, ownerID)
	if err != nil {
		r.log.Error("failed to cancel booking", logger.Int64("id", id), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *bookingRepo) CenterEarnings(ctx context.Context, centerID int64) (*models.EarningsSummary, error) {
	summary := &models.EarningsSummary{}

	err := r.db.QueryRow(ctx,
		`SELECT count(*), COALESCE(sum(price), 0) FROM wash_bookings
		 WHERE center_id = $1 AND status = 'completed'`,
		centerID).Scan(&summary.TotalCompleted, &summary.TotalEarned)
	if err != nil {
		r.log.Error("failed to get center earnings totals", logger.Error(err))
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT to_char(scheduled_at, 'YYYY-MM-DD') AS day, count(*), sum(price) FROM wash_bookings
		 WHERE center_id = $1 AND status = 'completed'
		 GROUP BY day ORDER BY day DESC LIMIT 30`,
		centerID)
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
