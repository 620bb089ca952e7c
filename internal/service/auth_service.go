package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/config"
	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/repository"
	apperrors "github.com/campus-kit/helpdesk/pkg/util/errorutil"
)

// AuthService signs demo accounts in and issues session tokens.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
}

// RegisterAccountInput describes an account added to the directory.
type RegisterAccountInput struct {
	ID          string
	Name        string
	Email       string
	Password    string
	Role        domain.AccountRole
	Department  string
	StudentID   string
	ContactInfo string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterAccount hashes the password and stores the account.
func (s *AuthService) RegisterAccount(ctx context.Context, input RegisterAccountInput) (*domain.Account, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}
	if input.Role == "" {
		input.Role = domain.AccountRoleStudent
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	account := &domain.Account{
		ID:           input.ID,
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   input.Department,
		StudentID:    input.StudentID,
		ContactInfo:  input.ContactInfo,
	}
	if account.ID == "" {
		account.ID = newID("acc-")
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, mapRepoError(err, resourceAccount, account.ID)
	}
	return account, nil
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return account, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
