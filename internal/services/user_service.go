package services

import (
	"context"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/models"
)

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SetRole changes a user's role. Admins cannot demote themselves.
func (s *UserService) SetRole(ctx context.Context, actorID, userID uuid.UUID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return apperr.Invalid("role must be user or admin")
	}
	if actorID == userID && role != models.RoleAdmin {
		return apperr.Invalid("admins cannot remove their own admin role")
	}
	return s.store.SetUserRole(ctx, userID, role)
}
