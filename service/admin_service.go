package service

import (
	"context"

	"washride/pkg/apperr"
	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/pkg/token"
	"washride/storage"
)

type ApprovalTarget string

const (
	TargetDriver  ApprovalTarget = "DRIVER"
	TargetCenter  ApprovalTarget = "CENTER"
	TargetVehicle ApprovalTarget = "VEHICLE"
)

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "APPROVE"
	ActionReject  ApprovalAction = "REJECT"
)

type ApprovalInput struct {
	Type   ApprovalTarget `json:"type"`
	ID     int64          `json:"id"`
	Action ApprovalAction `json:"action"`
}

type PendingReview struct {
	Accounts []*models.Account `json:"accounts"`
	Vehicles []*models.Vehicle `json:"vehicles"`
}

type AdminService interface {
	Pending(ctx context.Context, actor *token.Claims) (*PendingReview, error)
	Approve(ctx context.Context, actor *token.Claims, in ApprovalInput) error
}

type adminService struct {
	accounts storage.IAccountStorage
	vehicles storage.IVehicleStorage
	log      logger.ILogger
}

func NewAdminService(stg storage.IStorage, log logger.ILogger) AdminService {
	return &adminService{
		accounts: stg.Account(),
		vehicles: stg.Vehicle(),
		log:      log,
	}
}

func requireAdmin(actor *token.Claims) error {
	if actor.Role != models.RoleAdmin {
		return apperr.New(apperr.Unauthorized, "admin access required")
	}
	return nil
}

func (s *adminService) Pending(ctx context.Context, actor *token.Claims) (*PendingReview, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	accounts, err := s.accounts.GetPendingApproval(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list pending accounts", err)
	}
	vehicles, err := s.vehicles.GetPendingApproval(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list pending vehicles", err)
	}
	return &PendingReview{Accounts: accounts, Vehicles: vehicles}, nil
}

func (s *adminService) Approve(ctx context.Context, actor *token.Claims, in ApprovalInput) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if in.Action != ActionApprove && in.Action != ActionReject {
		return apperr.New(apperr.Validation, "action must be APPROVE or REJECT")
	}

	switch in.Type {
	case TargetDriver, TargetCenter:
		return s.decideAccount(ctx, in)
	case TargetVehicle:
		return s.decideVehicle(ctx, in)
	default:
		return apperr.New(apperr.Validation, "type must be DRIVER, CENTER or VEHICLE")
	}
}

func (s *adminService) decideAccount(ctx context.Context, in ApprovalInput) error {
	acc, err := s.accounts.GetByID(ctx, in.ID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to load account", err)
	}
	if acc == nil {
		return apperr.New(apperr.NotFound, "account not found")
	}
	if (in.Type == TargetDriver && acc.Role != models.RoleDriver) ||
		(in.Type == TargetCenter && acc.Role != models.RoleCenter) {
		return apperr.New(apperr.Validation, "approval type does not match account role")
	}

	status := models.StatusActive
	if in.Action == ActionReject {
		status = models.StatusRejected
	}

	matched, err := s.accounts.Decide(ctx, in.ID, status)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to apply decision", err)
	}
	if !matched {
		return apperr.New(apperr.Conflict, "account is not awaiting approval")
	}

	s.log.Info("account decision applied",
		logger.Int64("id", in.ID), logger.String("status", string(status)))
	return nil
}

// decideVehicle: REJECT sets approved=false, which is observably the same
// as never approving; repeating it changes nothing.
func (s *adminService) decideVehicle(ctx context.Context, in ApprovalInput) error {
	matched, err := s.vehicles.SetApproved(ctx, in.ID, in.Action == ActionApprove)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update vehicle", err)
	}
	if !matched {
		return apperr.New(apperr.NotFound, "vehicle not found")
	}

	s.log.Info("vehicle decision applied",
		logger.Int64("id", in.ID), logger.String("action", string(in.Action)))
	return nil
}
