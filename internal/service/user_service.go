package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

const minPasswordLength = 6

// UserService coordina reglas de negocio para registro y autenticación.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
	}
}

// Register da de alta un usuario nuevo. El nombre debe estar libre y la
// contraseña tener al menos seis caracteres.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, minPasswordLength)
	}

	user := domain.User{
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	if s.logger != nil {
		s.logger.Info("user registered", zap.String("username", username))
	}
	return user, nil
}

// Authenticate valida credenciales contra el directorio. La comparación es
// literal y sensible a mayúsculas; no hay hashing en este contrato.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.Password != password {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// IsUsernameAvailable indica si un nombre puede registrarse.
func (s *UserService) IsUsernameAvailable(ctx context.Context, username string) bool {
	if s.users == nil {
		return false
	}
	return s.users.IsUsernameAvailable(ctx, strings.TrimSpace(username))
}
