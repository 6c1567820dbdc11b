package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/storage"
)

type vehicleRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewVehicleRepo(db *pgxpool.Pool, log logger.ILogger) storage.IVehicleStorage {
	return &vehicleRepo{db: db, log: log}
}

const vehicleColumns = `id, owner_id, make, model, year, plate_number, color, document_url, approved, created_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.PlateNumber, &v.Color, &v.DocumentURL, &v.Approved, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	query := `
		INSERT INTO vehicles (owner_id, make, model, year, plate_number, color, document_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + vehicleColumns
	created, err := scanVehicle(r.db.QueryRow(ctx, query,
		v.OwnerID, v.Make, v.Model, v.Year, v.PlateNumber, v.Color, v.DocumentURL,
	))
	if err != nil {
		r.log.Error("failed to create vehicle", logger.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get vehicle by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepo) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.scanVehicles(ctx, query, ownerID)
}

func (r *vehicleRepo) GetPendingApproval(ctx context.Context) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE approved = false ORDER BY created_at`
	return r.scanVehicles(ctx, query)
}

func (r *vehicleRepo) scanVehicles(ctx context.Context, query string, args ...interface{}) ([]*models.Vehicle, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// SetApproved is a plain last-write-wins flag flip. Rejecting an already
// unapproved vehicle is a repeatable no-op.
func (r *vehicleRepo) SetApproved(ctx context.Context, id int64, approved bool) (bool, error) {
	res, err := r.db.Exec(ctx, `UPDATE vehicles SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		r.log.Error("failed to set vehicle approval", logger.Int64("id", id), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
