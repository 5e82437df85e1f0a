package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roomify-app/roomify-backend/internal/auth/domain"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

// UserRepository keeps one profile per user in that user's keyed store.
type UserRepository struct {
	store kv.Store
}

func NewUserRepository(store kv.Store) *UserRepository {
	return &UserRepository{store: store}
}

// GetByFirebaseUID retrieves a user by their Firebase UID
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	raw, err := r.store.Get(ctx, uid, domain.UserProfileKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode profile of %s: %w", uid, err)
	}
	return &user, nil
}

// Save creates or replaces the profile.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, user.UID, domain.UserProfileKey, raw)
}
