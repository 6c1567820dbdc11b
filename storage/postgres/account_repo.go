package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/storage"
)

type accountRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewAccountRepo(db *pgxpool.Pool, log logger.ILogger) storage.IAccountStorage {
	return &accountRepo{db: db, log: log}
}

const accountColumns = `id, email, password_hash, full_name, phone, role, status, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.Phone, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, acc *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, 'pending_onboarding')
		RETURNING ` + accountColumns
	created, err := scanAccount(r.db.QueryRow(ctx, query,
		acc.Email, acc.PasswordHash, acc.FullName, acc.Phone, acc.Role,
	))
	if err != nil {
		r.log.Error("failed to create account", logger.Error(err))
		return nil, err
	}
	return created, nil
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get account by id", logger.Int64("id", id), logger.Error(err))
		return nil, err
	}
	return acc, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get account by email", logger.Error(err))
		return nil, err
	}
	return acc, nil
}

func (r *accountRepo) GetPendingApproval(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE status = 'pending_approval' ORDER BY updated_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) UpsertDriverProfile(ctx context.Context, p *models.DriverProfile) error {
	query := `
		INSERT INTO driver_profiles (user_id, license_number, license_expiry, license_document_url, years_experience)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET license_number = EXCLUDED.license_number,
			license_expiry = EXCLUDED.license_expiry,
			license_document_url = EXCLUDED.license_document_url,
			years_experience = EXCLUDED.years_experience
	`
	_, err := r.db.Exec(ctx, query, p.UserID, p.LicenseNumber, p.LicenseExpiry, p.LicenseDocumentURL, p.YearsExperience)
	if err != nil {
		r.log.Error("failed to upsert driver profile", logger.Error(err))
		return err
	}
	return nil
}

func (r *accountRepo) GetDriverProfile(ctx context.Context, userID int64) (*models.DriverProfile, error) {
	var p models.DriverProfile
	query := `SELECT user_id, license_number, license_expiry, license_document_url, years_experience, created_at FROM driver_profiles WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.LicenseNumber, &p.LicenseExpiry, &p.LicenseDocumentURL, &p.YearsExperience, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get driver profile", logger.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *accountRepo) UpsertCenterProfile(ctx context.Context, p *models.CenterProfile) error {
	query := `
		INSERT INTO center_profiles (user_id, business_name, address, registration_number, document_url, opens_at, closes_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET business_name = EXCLUDED.business_name,
			address = EXCLUDED.address,
			registration_number = EXCLUDED.registration_number,
			document_url = EXCLUDED.document_url,
			opens_at = EXCLUDED.opens_at,
			closes_at = EXCLUDED.closes_at
	`
	_, err := r.db.Exec(ctx, query, p.UserID, p.BusinessName, p.Address, p.RegistrationNumber, p.DocumentURL, p.OpensAt, p.ClosesAt)
	if err != nil {
		r.log.Error("failed to upsert center profile", logger.Error(err))
		return err
	}
	return nil
}

func (r *accountRepo) GetCenterProfile(ctx context.Context, userID int64) (*models.CenterProfile, error) {
	var p models.CenterProfile
	query := `SELECT user_id, business_name, address, registration_number, document_url, opens_at, closes_at, created_at FROM center_profiles WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.BusinessName, &p.Address, &p.RegistrationNumber, &p.DocumentURL, &p.OpensAt, &p.ClosesAt, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get center profile", logger.Error(err))
		return nil, err
	}
	return &p, nil
}

// MarkPendingApproval only matches accounts that have not passed review
// yet, so re-submitting onboarding is idempotent and an active account
// never regresses.
func (r *accountRepo) MarkPendingApproval(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE users SET status = 'pending_approval', updated_at = now()
		 WHERE id = $1 AND status IN ('pending_onboarding', 'pending_approval')`, id)
	if err != nil {
		r.log.Error("failed to mark account pending approval", logger.Int64("id", id), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// Decide matches only accounts awaiting review; approving an account in
// any other status is a zero-row update, never a silent overwrite.
func (r *accountRepo) Decide(ctx context.Context, id int64, status models.AccountStatus) (bool, error) {
	res, err := r.db.Exec(ctx,
		`UPDATE users SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = 'pending_approval'`, status, id)
	if err != nil {
		r.log.Error("failed to apply approval decision", logger.Int64("id", id), logger.Error(err))
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
