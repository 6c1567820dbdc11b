package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"washride/pkg/apperr"
	"washride/pkg/logger"
	"washride/pkg/models"
	"washride/pkg/token"
	"washride/storage"
)

type RegisterInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Phone    *string     `json:"phone"`
	Role     models.Role `json:"role"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.Account, error)
	Login(ctx context.Context, email, password string) (string, *models.Account, error)
}

type authService struct {
	stg    storage.IAccountStorage
	tokens *token.Maker
	log    logger.ILogger
}

func NewAuthService(stg storage.IStorage, tokens *token.Maker, log logger.ILogger) AuthService {
	return &authService{
		stg:    stg.Account(),
		tokens: tokens,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, apperr.New(apperr.Validation, "a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.New(apperr.Validation, "password must be at least 8 characters")
	}
	if in.FullName == "" {
		return nil, apperr.New(apperr.Validation, "full_name is required")
	}
	if !models.ValidRole(in.Role) {
		return nil, apperr.New(apperr.Validation, "role must be one of owner, driver, center")
	}

	existing, err := s.stg.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	acc, err := s.stg.Create(ctx, &models.Account{
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         in.Role,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create account", err)
	}

	s.log.Info("account registered", logger.Int64("id", acc.ID), logger.String("role", string(acc.Role)))
	return acc, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	acc, err := s.stg.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Internal, "failed to look up account", err)
	}
	if acc == nil {
		return "", nil, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return "", nil, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}

	// role and status are frozen into the token here; approval decisions
	// made after this point show up on the next login
	tok, err := s.tokens.Issue(acc.ID, acc.Role, acc.Status)
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Internal, "failed to issue token", err)
	}
	return tok, acc, nil
}
