package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

const minStaffPasswordLength = 6

// StaffSession is returned on a successful staff login
type StaffSession struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Staff     *model.StaffAccount `json:"staff"`
}

// NewStaffInput carries the fields of an account created by an admin
type NewStaffInput struct {
	Username    string                 `json:"username"`
	Password    string                 `json:"password"`
	AccountType model.StaffAccountType `json:"account_type"`
}

type StaffService struct {
	repo *repository.Repository
	auth *AuthService
}

func NewStaffService(repo *repository.Repository, auth *AuthService) *StaffService {
	return &StaffService{repo: repo, auth: auth}
}

// Login checks the credentials of an active account and opens a session.
// Unknown users, wrong passwords and inactive accounts look the same.
func (s *StaffService) Login(ctx context.Context, username, password string) (*StaffSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	staff, err := s.repo.GetStaffByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	if !staff.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.auth.IssueStaffSession(staff)
	if err != nil {
		return nil, err
	}

	zap.L().Info("staff login", zap.String("username", staff.Username), zap.String("account_type", string(staff.AccountType)))
	return &StaffSession{Token: token, ExpiresAt: expiresAt, Staff: staff}, nil
}

// Authorize returns the account behind a staff id if it is still active
func (s *StaffService) Authorize(ctx context.Context, staffID uuid.UUID) (*model.StaffAccount, error) {
	staff, err := s.repo.GetStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return nil, ErrUnauthorizedStaff
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	if !staff.IsActive {
		return nil, ErrUnauthorizedStaff
	}
	return staff, nil
}

func (s *StaffService) Create(ctx context.Context, in NewStaffInput, createdBy uuid.UUID) (*model.StaffAccount, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" || in.AccountType == "" {
		return nil, ErrMissingStaffFields
	}
	if !in.AccountType.Valid() {
		return nil, ErrInvalidAccountType
	}
	if len(in.Password) < minStaffPasswordLength {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.repo.StaffUsernameExists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &model.StaffAccount{
		Username:     in.Username,
		PasswordHash: string(hash),
		AccountType:  in.AccountType,
		IsActive:     true,
	}
	if createdBy != uuid.Nil {
		staff.CreatedBy = &createdBy
	}
	if err := s.repo.CreateStaff(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff account: %w", err)
	}

	zap.L().Info("staff account created",
		zap.String("username", staff.Username),
		zap.String("account_type", string(staff.AccountType)),
		zap.String("created_by", createdBy.String()),
	)
	return staff, nil
}

func (s *StaffService) List(ctx context.Context) ([]model.StaffAccount, error) {
	return s.repo.ListStaff(ctx)
}

// Deactivate keeps the account for history but blocks logins and validations
func (s *StaffService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetStaffActive(ctx, id, false); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to deactivate staff account: %w", err)
	}
	zap.L().Info("staff account deactivated", zap.String("staff_id", id.String()))
	return nil
}

func (s *StaffService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStaff(ctx, id); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to delete staff account: %w", err)
	}
	zap.L().Info("staff account deleted", zap.String("staff_id", id.String()))
	return nil
}
