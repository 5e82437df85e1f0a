package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/roomify-app/roomify-backend/internal/auth/domain"
	"github.com/roomify-app/roomify-backend/internal/auth/repository"
)

var ErrInvalidUsername = errors.New("username must not be empty")

type AuthService struct {
	userRepo *repository.UserRepository
	now      func() time.Time
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GetUserByFirebaseUID retrieves a user by Firebase UID
func (s *AuthService) GetUserByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	return s.userRepo.GetByFirebaseUID(ctx, uid)
}

// SyncUser creates the profile on first sign-in and refreshes it afterwards.
// Provider fields only overwrite stored ones when they are set.
func (s *AuthService) SyncUser(ctx context.Context, req domain.SyncUserRequest) (*domain.User, error) {
	now := s.now().UTC()

	user, err := s.userRepo.GetByFirebaseUID(ctx, req.UID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user = &domain.User{
			UID:       req.UID,
			Username:  domain.DefaultUsername(req.UID, req.Email),
			CreatedAt: now,
		}
	case err != nil:
		return nil, err
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	user.UpdatedAt = now
	user.LastLoginAt = &now

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser updates user information
func (s *AuthService) UpdateUser(ctx context.Context, uid string, req domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			return nil, ErrInvalidUsername
		}
		user.Username = name
	}
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
