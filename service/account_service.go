package service

import (
	"context"
	"time"

	"washride/pkg/apperr"
	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/pkg/notify"
	"washride/pkg/token"
	"washride/storage"
)

type DriverOnboardingInput struct {
	LicenseNumber      string     `json:"license_number"`
	LicenseExpiry      *time.Time `json:"license_expiry"`
	LicenseDocumentURL string     `json:"license_document_url"`
	YearsExperience    int        `json:"years_experience"`
}

type CenterOnboardingInput struct {
	BusinessName       string `json:"business_name"`
	Address            string `json:"address"`
	RegistrationNumber string `json:"registration_number"`
	DocumentURL        string `json:"document_url"`
	OpensAt            string `json:"opens_at"`
	ClosesAt           string `json:"closes_at"`
}

type VehicleInput struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	PlateNumber string `json:"plate_number"`
	Color       string `json:"color"`
	DocumentURL string `json:"document_url"`
}

type AccountService interface {
	Me(ctx context.Context, actor *token.Claims) (*models.Account, error)
	SubmitDriverOnboarding(ctx context.Context, actor *token.Claims, in DriverOnboardingInput) (*models.Account, error)
	SubmitCenterOnboarding(ctx context.Context, actor *token.Claims, in CenterOnboardingInput) (*models.Account, error)
	SubmitOwnerVehicle(ctx context.Context, actor *token.Claims, in VehicleInput) (*models.Vehicle, error)
	AddVehicle(ctx context.Context, actor *token.Claims, in VehicleInput) (*models.Vehicle, error)
	MyVehicles(ctx context.Context, actor *token.Claims) ([]*models.Vehicle, error)
}

type accountService struct {
	accounts storage.IAccountStorage
	vehicles storage.IVehicleStorage
	notifier *notify.Notifier
	log      logger.ILogger
}

func NewAccountService(stg storage.IStorage, notifier *notify.Notifier, log logger.ILogger) AccountService {
	return &accountService{
		accounts: stg.Account(),
		vehicles: stg.Vehicle(),
		notifier: notifier,
		log:      log,
	}
}

func (s *accountService) Me(ctx context.Context, actor *token.Claims) (*models.Account, error) {
	acc, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load account", err)
	}
	if acc == nil {
		return nil, apperr.New(apperr.NotFound, "account not found")
	}
	return acc, nil
}

func (s *accountService) SubmitDriverOnboarding(ctx context.Context, actor *token.Claims, in DriverOnboardingInput) (*models.Account, error) {
	if actor.Role != models.RoleDriver {
		return nil, apperr.New(apperr.Unauthorized, "driver onboarding requires a driver account")
	}
	if in.LicenseNumber == "" {
		return nil, apperr.New(apperr.Validation, "license_number is required")
	}

	err := s.accounts.UpsertDriverProfile(ctx, &models.DriverProfile{
		UserID:             actor.AccountID,
		LicenseNumber:      in.LicenseNumber,
		LicenseExpiry:      in.LicenseExpiry,
		LicenseDocumentURL: in.LicenseDocumentURL,
		YearsExperience:    in.YearsExperience,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save driver profile", err)
	}

	return s.finishOnboarding(ctx, actor.AccountID)
}

func (s *accountService) SubmitCenterOnboarding(ctx context.Context, actor *token.Claims, in CenterOnboardingInput) (*models.Account, error) {
	if actor.Role != models.RoleCenter {
		return nil, apperr.New(apperr.Unauthorized, "center onboarding requires a center account")
	}
	if in.BusinessName == "" || in.Address == "" {
		return nil, apperr.New(apperr.Validation, "business_name and address are required")
	}

	err := s.accounts.UpsertCenterProfile(ctx, &models.CenterProfile{
		UserID:             actor.AccountID,
		BusinessName:       in.BusinessName,
		Address:            in.Address,
		RegistrationNumber: in.RegistrationNumber,
		DocumentURL:        in.DocumentURL,
		OpensAt:            in.OpensAt,
		ClosesAt:           in.ClosesAt,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save center profile", err)
	}

	return s.finishOnboarding(ctx, actor.AccountID)
}

// SubmitOwnerVehicle is the owner's onboarding submission: the first
// vehicle doubles as the role profile.
func (s *accountService) SubmitOwnerVehicle(ctx context.Context, actor *token.Claims, in VehicleInput) (*models.Vehicle, error) {
	if actor.Role != models.RoleOwner {
		return nil, apperr.New(apperr.Unauthorized, "owner onboarding requires an owner account")
	}
	v, err := s.createVehicle(ctx, actor.AccountID, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.finishOnboarding(ctx, actor.AccountID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *accountService) finishOnboarding(ctx context.Context, accountID int64) (*models.Account, error) {
	if _, err := s.accounts.MarkPendingApproval(ctx, accountID); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update account status", err)
	}
	// zero rows matched means the account already passed review; the
	// profile update above still applied, the status simply stays put

	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil || acc == nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to reload account", err)
	}

	if acc.Status == models.StatusPendingApproval {
		s.notifier.OnboardingSubmitted(acc)
	}
	return acc, nil
}

// AddVehicle registers additional vehicles for an already active owner.
func (s *accountService) AddVehicle(ctx context.Context, actor *token.Claims, in VehicleInput) (*models.Vehicle, error) {
	if actor.Role != models.RoleOwner {
		return nil, apperr.New(apperr.Unauthorized, "only owners register vehicles")
	}
	if actor.Status != models.StatusActive {
		return nil, apperr.New(apperr.Unauthorized, "account is not active")
	}
	v, err := s.createVehicle(ctx, actor.AccountID, in)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *accountService) createVehicle(ctx context.Context, ownerID int64, in VehicleInput) (*models.Vehicle, error) {
	if in.Make == "" || in.Model == "" || in.PlateNumber == "" {
		return nil, apperr.New(apperr.Validation, "make, model and plate_number are required")
	}

	v, err := s.vehicles.Create(ctx, &models.Vehicle{
		OwnerID:     ownerID,
		Make:        in.Make,
		Model:       in.Model,
		Year:        in.Year,
		PlateNumber: in.PlateNumber,
		Color:       in.Color,
		DocumentURL: in.DocumentURL,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create vehicle", err)
	}

	owner, _ := s.accounts.GetByID(ctx, ownerID)
	ownerName := ""
	if owner != nil {
		ownerName = owner.FullName
	}
	s.notifier.VehicleSubmitted(v, ownerName)

	s.log.Info("vehicle registered", logger.Int64("vehicle_id", v.ID), logger.Int64("owner_id", ownerID))
	return v, nil
}

func (s *accountService) MyVehicles(ctx context.Context, actor *token.Claims) ([]*models.Vehicle, error) {
	if actor.Role != models.RoleOwner {
		return nil, apperr.New(apperr.Unauthorized, "only owners have vehicles")
	}
	vehicles, err := s.vehicles.GetByOwner(ctx, actor.AccountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list vehicles", err)
	}
	return vehicles, nil
}
