package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk/internal/domain"
	"github.com/campus-kit/helpdesk/internal/repository"
)

const resourceAccount = "account"

// ProfileService reads and edits the signed-in account's own details.
type ProfileService struct {
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// ProfileDependencies bundles collaborators for the profile service.
type ProfileDependencies struct {
	AccountRepo repository.AccountRepository
	Logger      *zap.Logger
}

// UpdateProfileInput is a partial edit; nil fields keep their stored value.
// Role and password are not editable here.
type UpdateProfileInput struct {
	Name        *string
	Email       *string
	Department  *string
	StudentID   *string
	ContactInfo *string
	Phone       *string
}

// profileFields is the merged result checked before it is stored.
type profileFields struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Department  string `json:"department" validate:"max=120"`
	StudentID   string `json:"student_id" validate:"max=40"`
	ContactInfo string `json:"contact_info" validate:"max=200"`
	Phone       string `json:"phone" validate:"max=40"`
}

// NewProfileService constructs the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{accounts: deps.AccountRepo, logger: logger}
}

// Get returns the profile of accountID.
func (s *ProfileService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err, resourceAccount, accountID)
	}
	return account, nil
}

// Update applies the non-nil fields of input to accountID's profile.
func (s *ProfileService) Update(ctx context.Context, accountID string, input UpdateProfileInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err, resourceAccount, accountID)
	}

	fields := profileFields{
		Name:        pick(input.Name, account.Name),
		Email:       pick(input.Email, account.Email),
		Department:  pick(input.Department, account.Department),
		StudentID:   pick(input.StudentID, account.StudentID),
		ContactInfo: pick(input.ContactInfo, account.ContactInfo),
		Phone:       pick(input.Phone, account.Phone),
	}
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	account.Name = fields.Name
	account.Email = fields.Email
	account.Department = fields.Department
	account.StudentID = fields.StudentID
	account.ContactInfo = fields.ContactInfo
	account.Phone = fields.Phone
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, mapRepoError(err, resourceAccount, accountID)
	}

	s.logger.Info("profile updated", zap.String("account_id", accountID))
	return account, nil
}

func pick(value *string, current string) string {
	if value == nil {
		return current
	}
	return strings.TrimSpace(*value)
}
