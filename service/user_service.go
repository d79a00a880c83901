package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/repository"

	"github.com/sirupsen/logrus"
)

var ErrInvalidRole = errors.New("invalid role specified")

// UserService handles account administration that has no HTTP surface.
type UserService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SetRole assigns role to the user registered under email.
func (s *UserService) SetRole(ctx context.Context, email string, role model.Role) error {
	if role != model.RoleAdmin && role != model.RoleCustomer {
		return ErrInvalidRole
	}

	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("could not look up user: %w", err)
	}
	if user.Role == role {
		return nil
	}

	if err := s.userRepo.UpdateUserRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("could not update role: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    role,
	}).Info("User role updated")
	return nil
}
