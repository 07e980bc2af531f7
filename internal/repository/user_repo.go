package repository

import (
	"context"
	"errors"
	"sync"

	"bookshelf/internal/domain"
)

var ErrDuplicate = errors.New("duplicate record")

// UserRepository define el contrato del directorio de usuarios registrados.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	IsUsernameAvailable(ctx context.Context, username string) bool
}

// MemoryUserRepository implementa UserRepository como lista en memoria,
// append-only. La verificación de disponibilidad y el alta comparten la
// misma sección crítica para no admitir nombres duplicados bajo concurrencia.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]domain.User),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.Username == "" {
		return ErrDuplicate
	}
	if _, ok := r.users[user.Username]; ok {
		return ErrDuplicate
	}
	r.users[user.Username] = user
	return nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) IsUsernameAvailable(_ context.Context, username string) bool {
	if username == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[username]
	return !ok
}
