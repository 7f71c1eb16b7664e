package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
)

const usersKey = "users"

// UserRepository encapsulates the persisted user collection. Every mutation
// re-reads and rewrites the full collection, matching the store's
// whole-document semantics.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByIDAndRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
	Append(ctx context.Context, user domain.User) error
	SeedIfAbsent(ctx context.Context, users []domain.User) error
}

type userRepository struct {
	kv store.KV
}

// NewUserRepository instantiates the repository.
func NewUserRepository(kv store.KV) UserRepository {
	return &userRepository{kv: kv}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	raw, ok, err := r.kv.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return []domain.User{}, nil
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			user := users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByIDAndRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID && users[i].Role == role {
			user := users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Append(ctx context.Context, user domain.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	users = append(users, user)
	return r.write(ctx, users)
}

// SeedIfAbsent writes the fixtures only when no user collection exists,
// preserving registrations across restarts.
func (r *userRepository) SeedIfAbsent(ctx context.Context, users []domain.User) error {
	_, ok, err := r.kv.Get(ctx, usersKey)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if ok {
		return nil
	}
	return r.write(ctx, users)
}

func (r *userRepository) write(ctx context.Context, users []domain.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := r.kv.Set(ctx, usersKey, raw); err != nil {
		return fmt.Errorf("store users: %w", err)
	}
	return nil
}
