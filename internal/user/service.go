package user

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/ngo-donations/internal"
	userDatamodel "github.com/frahmantamala/ngo-donations/internal/core/datamodel/user"
)

type Repository interface {
	Create(ctx context.Context, u *userDatamodel.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*userDatamodel.AdminUser, error)
	List(ctx context.Context) ([]*userDatamodel.AdminUser, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
}

func NewService(repo Repository, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) List(ctx context.Context) ([]*AdminUser, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to list users", err)
	}
	users := make([]*AdminUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

// EnsureAdmin creates the account unless one with the same email exists.
// It reports whether a new account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password, role string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if err != errors.ErrUserNotFound {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if role == "" {
		role = RoleAdmin
	}
	err = s.repo.Create(ctx, &userDatamodel.AdminUser{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}
	return true, nil
}
