package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

var _ domain.UserRepository = (*UserRepository)(nil)

// UserRepository provides Postgres-backed persistence for users.
type UserRepository struct {
	store  *Store
	logger *logger.Logger
}

func NewUserRepository(store *Store, log *logger.Logger) *UserRepository {
	return &UserRepository{store: store, logger: log.Named("UserRepository")}
}

// Create inserts a new user row and returns the persisted entity.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, role, created_at;`

	row := r.store.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, string(user.Role))
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Duplicate username during user creation", zap.String("username", user.Username))
			return nil, domain.ErrDuplicateUsername
		}
		r.logger.Error("Database error during user creation", zap.String("username", user.Username), zap.Error(err))
		return nil, fmt.Errorf("%w: create user: %v", domain.ErrRepository, err)
	}
	r.logger.Info("User created", zap.Int64("user_id", created.ID), zap.String("role", string(created.Role)))
	return created, nil
}

// FindByUsername fetches a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = $1;`

	row := r.store.pool.QueryRow(ctx, query, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Database error fetching user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("%w: find user by username: %v", domain.ErrRepository, err)
	}
	return user, nil
}

// FindByID fetches a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE id = $1;`

	row := r.store.pool.QueryRow(ctx, query, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Database error fetching user by id", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: find user by id: %v", domain.ErrRepository, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var role string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return &user, nil
}
