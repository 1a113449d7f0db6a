package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusnest/accommodation-service/internal/auth"
	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

// UserUsecase implements the user directory: registration, login and lookups.
type UserUsecase struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
	logger *logger.Logger
}

func NewUserUsecase(repo domain.UserRepository, tokens *auth.TokenManager, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		tokens: tokens,
		logger: log.Named("UserUsecase"),
	}
}

// Register creates a user. An empty role defaults to USER; anything outside
// the closed role set is rejected. The raw password is hashed before it ever
// reaches the repository.
func (uc *UserUsecase) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	uc.logger.Info("Registering user", zap.String("username", username), zap.String("role", string(role)))

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	if _, err := uc.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("User registered", zap.Int64("user_id", created.ID), zap.String("role", string(created.Role)))
	return created, nil
}

// Login verifies the claimed credential against the stored hash and issues a
// token on success. Unknown users and wrong passwords are indistinguishable
// to the caller.
func (uc *UserUsecase) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		uc.logger.Warn("Failed login attempt", zap.String("username", username))
		return "", nil, fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	}

	token, err := uc.tokens.Generate(user)
	if err != nil {
		uc.logger.Error("Failed to generate token", zap.String("username", username), zap.Error(err))
		return "", nil, err
	}

	uc.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// FindByUsername resolves a user or returns ErrNotFound.
func (uc *UserUsecase) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.repo.FindByUsername(ctx, username)
}

// FindByID resolves a user or returns ErrNotFound.
func (uc *UserUsecase) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return uc.repo.FindByID(ctx, id)
}
