package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/asset-desk/internal/core/domain"
	"github.com/rl1809/asset-desk/internal/port"
)

type UserService struct {
	users port.UserRepository
}

func NewUserService(users port.UserRepository) *UserService {
	return &UserService{users: users}
}

type RegisterUserInput struct {
	ID          string
	Name        string
	Email       string
	DateOfBirth string
	Role        domain.Role
	CompanyName string
	CompanyLogo string
}

// Register upserts a user. HR accounts require company info and start on the
// basic subscription with the default employee limit; registering an existing
// id replaces the profile fields.
func (s *UserService) Register(ctx context.Context, in RegisterUserInput) (domain.User, error) {
	switch in.Role {
	case domain.RoleHR:
		if in.CompanyName == "" || in.CompanyLogo == "" {
			return domain.User{}, domain.ErrCompanyInfoRequired
		}
	case domain.RoleEmployee:
	default:
		return domain.User{}, domain.ErrUnknownRole
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}

	u := domain.User{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		Role:        in.Role,
		CreatedAt:   time.Now(),
	}
	if in.Role == domain.RoleHR {
		u.HR = &domain.HRProfile{
			CompanyName:  in.CompanyName,
			CompanyLogo:  in.CompanyLogo,
			PackageLimit: domain.DefaultPackageLimit,
			Subscription: domain.DefaultSubscription,
		}
		// Preserve capacity state on re-registration.
		if existing, err := s.users.GetUser(ctx, id); err != nil {
			return domain.User{}, fmt.Errorf("load user: %w", err)
		} else if existing.IsHR() {
			u.HR.PackageLimit = existing.HR.PackageLimit
			u.HR.CurrentEmployees = existing.HR.CurrentEmployees
			u.HR.Subscription = existing.HR.Subscription
		}
	}

	if err := s.users.UpsertUser(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// Get resolves a user by id.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}
