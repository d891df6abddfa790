package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mineaction/internal/common/models"
)

type UserService interface {
	// InitializeUser makes sure a record exists for identity and returns its
	// role. An existing non-empty role is never overwritten.
	InitializeUser(ctx context.Context, identity *models.Identity, defaultRole string) (string, error)
	GetUser(ctx context.Context, uid string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]UserRecord, error)
	SetRole(ctx context.Context, uid, role string) error
}

type UserServiceImpl struct {
	UserRepo UserRepository
	Now      func() time.Time
}

func NewUserService(userRepo UserRepository) UserService {
	return &UserServiceImpl{
		UserRepo: userRepo,
		Now:      time.Now,
	}
}

func (s *UserServiceImpl) InitializeUser(ctx context.Context, identity *models.Identity, defaultRole string) (string, error) {
	if identity == nil || identity.UID == "" {
		return "", fmt.Errorf("%w: identity required", models.ErrInvalidInput)
	}
	if defaultRole == "" {
		defaultRole = models.DefaultRole
	}

	existing, err := s.UserRepo.FindByID(ctx, identity.UID)
	switch {
	case err == nil:
		return s.backfill(ctx, existing, defaultRole)
	case !errors.Is(err, models.ErrNotFound):
		return "", err
	}

	role := defaultRole
	record := &UserRecord{
		UID:         identity.UID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
		Role:        &role,
		CreatedAt:   models.NewFlexTime(s.Now()),
	}
	err = s.UserRepo.Create(ctx, record)
	if errors.Is(err, models.ErrConflict) {
		// Another sign-in created it first
		existing, err = s.UserRepo.FindByID(ctx, identity.UID)
		if err != nil {
			return "", err
		}
		return s.backfill(ctx, existing, defaultRole)
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

func (s *UserServiceImpl) backfill(ctx context.Context, existing *UserRecord, defaultRole string) (string, error) {
	if existing.Role != nil && *existing.Role != "" {
		return *existing.Role, nil
	}
	if err := s.UserRepo.SetRole(ctx, existing.UID, defaultRole); err != nil {
		return "", err
	}
	return defaultRole, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	return s.UserRepo.FindByID(ctx, uid)
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]UserRecord, error) {
	return s.UserRepo.List(ctx)
}

func (s *UserServiceImpl) SetRole(ctx context.Context, uid, role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("%w: role must not be empty", models.ErrInvalidInput)
	}
	return s.UserRepo.SetRole(ctx, uid, role)
}
