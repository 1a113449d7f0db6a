package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

var _ domain.AccommodationRepository = (*AccommodationRepository)(nil)

// AccommodationRepository provides Postgres-backed persistence for accommodations.
type AccommodationRepository struct {
	store  *Store
	logger *logger.Logger
}

func NewAccommodationRepository(store *Store, log *logger.Logger) *AccommodationRepository {
	return &AccommodationRepository{store: store, logger: log.Named("AccommodationRepository")}
}

const accommodationColumns = `
	a.id, a.title, a.address, a.price, a.distance_from_university,
	a.amenities, a.photos, a.contact_email, a.contact_phone, a.created_at,
	u.id, u.username, u.role`

// Create inserts the accommodation and returns it with its generated id.
func (r *AccommodationRepository) Create(ctx context.Context, acc *domain.Accommodation) (*domain.Accommodation, error) {
	const query = `
		INSERT INTO accommodations
			(title, address, price, distance_from_university, amenities, photos, contact_email, contact_phone, broker_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;`

	amenities := acc.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	photos := acc.Photos
	if photos == nil {
		photos = []string{}
	}

	row := r.store.pool.QueryRow(ctx, query,
		acc.Title, acc.Address, acc.Price, acc.DistanceFromUniversity,
		amenities, photos, acc.ContactEmail, acc.ContactPhone, acc.Broker.ID)
	if err := row.Scan(&acc.ID, &acc.CreatedAt); err != nil {
		r.logger.Error("Database error during accommodation creation", zap.String("title", acc.Title), zap.Error(err))
		return nil, fmt.Errorf("%w: create accommodation: %v", domain.ErrRepository, err)
	}
	r.logger.Info("Accommodation created", zap.Int64("accommodation_id", acc.ID), zap.Int64("broker_id", acc.Broker.ID))
	return acc, nil
}

// FindByID fetches an accommodation with its broker.
func (r *AccommodationRepository) FindByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	query := `
		SELECT` + accommodationColumns + `
		FROM accommodations a
		JOIN users u ON u.id = a.broker_id
		WHERE a.id = $1;`

	row := r.store.pool.QueryRow(ctx, query, id)
	acc, err := scanAccommodation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Database error fetching accommodation", zap.Int64("accommodation_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: find accommodation by id: %v", domain.ErrRepository, err)
	}
	return acc, nil
}

// FindAll returns every accommodation in stable id order.
func (r *AccommodationRepository) FindAll(ctx context.Context) ([]*domain.Accommodation, error) {
	query := `
		SELECT` + accommodationColumns + `
		FROM accommodations a
		JOIN users u ON u.id = a.broker_id
		ORDER BY a.id;`

	rows, err := r.store.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error("Database error listing accommodations", zap.Error(err))
		return nil, fmt.Errorf("%w: list accommodations: %v", domain.ErrRepository, err)
	}
	defer rows.Close()
	return collectAccommodations(rows)
}

// FindByBrokerID returns the broker's accommodations in stable id order.
func (r *AccommodationRepository) FindByBrokerID(ctx context.Context, brokerID int64) ([]*domain.Accommodation, error) {
	query := `
		SELECT` + accommodationColumns + `
		FROM accommodations a
		JOIN users u ON u.id = a.broker_id
		WHERE a.broker_id = $1
		ORDER BY a.id;`

	rows, err := r.store.pool.Query(ctx, query, brokerID)
	if err != nil {
		r.logger.Error("Database error listing accommodations by broker", zap.Int64("broker_id", brokerID), zap.Error(err))
		return nil, fmt.Errorf("%w: list accommodations by broker: %v", domain.ErrRepository, err)
	}
	defer rows.Close()
	return collectAccommodations(rows)
}

// Delete removes the accommodation record.
func (r *AccommodationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.store.pool.Exec(ctx, `DELETE FROM accommodations WHERE id = $1;`, id)
	if err != nil {
		r.logger.Error("Database error deleting accommodation", zap.Int64("accommodation_id", id), zap.Error(err))
		return fmt.Errorf("%w: delete accommodation: %v", domain.ErrRepository, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("Accommodation deleted", zap.Int64("accommodation_id", id))
	return nil
}

func scanAccommodation(row pgx.Row) (*domain.Accommodation, error) {
	var acc domain.Accommodation
	var broker domain.User
	var role string
	err := row.Scan(
		&acc.ID, &acc.Title, &acc.Address, &acc.Price, &acc.DistanceFromUniversity,
		&acc.Amenities, &acc.Photos, &acc.ContactEmail, &acc.ContactPhone, &acc.CreatedAt,
		&broker.ID, &broker.Username, &role,
	)
	if err != nil {
		return nil, err
	}
	broker.Role = domain.Role(role)
	acc.Broker = &broker
	return &acc, nil
}

func collectAccommodations(rows pgx.Rows) ([]*domain.Accommodation, error) {
	accommodations := make([]*domain.Accommodation, 0)
	for rows.Next() {
		acc, err := scanAccommodation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan accommodation: %v", domain.ErrRepository, err)
		}
		accommodations = append(accommodations, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate accommodations: %v", domain.ErrRepository, err)
	}
	return accommodations, nil
}
