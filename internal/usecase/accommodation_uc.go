package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/adapter/repository/cache"
	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/mailer"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
	"github.com/campusnest/accommodation-service/internal/platform/metrics"
)

// EventPublisher emits lifecycle events. Satisfied by the NATS adapter.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// AccommodationUsecase implements the listing workflow: validated creation
// with photo storage, reads, and cascading deletion. The event publisher,
// cache, mailer and metrics collaborators are optional; nil disables them.
type AccommodationUsecase struct {
	repo    domain.AccommodationRepository
	users   domain.UserRepository
	files   domain.FileStore
	events  EventPublisher
	cache   *cache.AccommodationCache
	mail    mailer.Mailer
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewAccommodationUsecase(
	repo domain.AccommodationRepository,
	users domain.UserRepository,
	files domain.FileStore,
	events EventPublisher,
	accCache *cache.AccommodationCache,
	mail mailer.Mailer,
	mm *metrics.MetricsManager,
	log *logger.Logger,
) *AccommodationUsecase {
	return &AccommodationUsecase{
		repo:    repo,
		users:   users,
		files:   files,
		events:  events,
		cache:   accCache,
		mail:    mail,
		metrics: mm,
		logger:  log.Named("AccommodationUsecase"),
	}
}

// CreateAccommodation validates the draft and persists a new accommodation.
// brokerUsername is the verified identity of the caller, not client input.
// Checks run in a fixed order and the first failure wins: broker resolution
// and role, then required fields, then photo storage, then the insert. Photos
// are stored before the persistence write; any storage failure aborts the
// whole creation.
func (uc *AccommodationUsecase) CreateAccommodation(ctx context.Context, brokerUsername string, draft domain.AccommodationDraft, photos []domain.File) (*domain.Accommodation, error) {
	uc.logger.Info("Creating accommodation",
		zap.String("broker_username", brokerUsername),
		zap.String("title", draft.Title),
		zap.Int("photo_count", len(photos)))

	broker, err := uc.users.FindByUsername(ctx, brokerUsername)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid broker or insufficient permissions", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to create accommodation: %w", err)
	}
	if !broker.IsBroker() {
		uc.logger.Warn("Non-broker attempted to create accommodation",
			zap.String("username", brokerUsername), zap.String("role", string(broker.Role)))
		return nil, fmt.Errorf("%w: invalid broker or insufficient permissions", domain.ErrUnauthorized)
	}

	if strings.TrimSpace(draft.Title) == "" ||
		strings.TrimSpace(draft.Address) == "" ||
		draft.Price <= 0 {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrInvalidInput)
	}

	acc := &domain.Accommodation{
		Title:                  draft.Title,
		Address:                draft.Address,
		Price:                  draft.Price,
		DistanceFromUniversity: draft.DistanceFromUniversity,
		Amenities:              draft.Amenities,
		Photos:                 []string{},
		ContactEmail:           draft.ContactEmail,
		ContactPhone:           draft.ContactPhone,
		Broker:                 broker,
	}

	if len(photos) > 0 {
		urls, err := uc.files.StoreAll(ctx, photos)
		if err != nil {
			uc.logger.Error("Photo storage failed, aborting creation", zap.Error(err))
			return nil, fmt.Errorf("failed to create accommodation: %w", err)
		}
		acc.Photos = urls
		if uc.metrics != nil {
			uc.metrics.PhotosStoredTotal.Add(float64(len(urls)))
		}
	}

	created, err := uc.repo.Create(ctx, acc)
	if err != nil {
		return nil, fmt.Errorf("failed to create accommodation: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.AccommodationsCreatedTotal.Inc()
	}

	if uc.events != nil {
		eventData := map[string]interface{}{
			"accommodation_id": created.ID,
			"broker_id":        broker.ID,
			"title":            created.Title,
			"photo_count":      len(created.Photos),
			"created_at":       created.CreatedAt.Format(time.RFC3339Nano),
		}
		if err := uc.events.Publish(ctx, "accommodation.created", eventData); err != nil {
			uc.logger.Warn("Failed to publish accommodation.created event", zap.Error(err), zap.Int64("accommodation_id", created.ID))
		}
	}

	if uc.mail != nil && created.ContactEmail != "" {
		if err := uc.mail.SendAccommodationCreated(created.ContactEmail, created.Title); err != nil {
			uc.logger.Warn("Failed to send creation notification", zap.Error(err), zap.Int64("accommodation_id", created.ID))
		}
	}

	uc.logger.Info("Accommodation created", zap.Int64("accommodation_id", created.ID))
	return created, nil
}

// GetByID fetches one accommodation, consulting the cache first when wired.
func (uc *AccommodationUsecase) GetByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, id)
		if err != nil {
			uc.logger.Warn("Cache lookup failed, falling back to repository", zap.Int64("accommodation_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	acc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, acc); err != nil {
			uc.logger.Warn("Failed to cache accommodation", zap.Int64("accommodation_id", id), zap.Error(err))
		}
	}
	return acc, nil
}

// GetAll returns every accommodation.
func (uc *AccommodationUsecase) GetAll(ctx context.Context) ([]*domain.Accommodation, error) {
	return uc.repo.FindAll(ctx)
}

// GetByBroker returns the accommodations posted by one broker.
func (uc *AccommodationUsecase) GetByBroker(ctx context.Context, brokerID int64) ([]*domain.Accommodation, error) {
	return uc.repo.FindByBrokerID(ctx, brokerID)
}

// DeleteAccommodation removes a listing and every stored file it owns. Only
// the owning broker may delete. Files are deleted before the record so a
// crash mid-deletion leaves at most a dangling record with stale photo URLs,
// never orphaned files; a file-store failure aborts before the record delete
// and leaves that distinguishable state.
func (uc *AccommodationUsecase) DeleteAccommodation(ctx context.Context, id int64, actorUsername string) error {
	uc.logger.Info("Deleting accommodation", zap.Int64("accommodation_id", id), zap.String("actor", actorUsername))

	acc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if acc.Broker == nil || acc.Broker.Username != actorUsername {
		uc.logger.Warn("Actor is not the owning broker",
			zap.Int64("accommodation_id", id), zap.String("actor", actorUsername))
		return fmt.Errorf("%w: only the owning broker may delete this accommodation", domain.ErrUnauthorized)
	}

	if err := uc.files.DeleteAll(ctx, acc.Photos); err != nil {
		uc.logger.Error("Photo cleanup incomplete, record retained", zap.Int64("accommodation_id", id), zap.Error(err))
		return fmt.Errorf("photo cleanup incomplete, record retained: %w", err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, id); err != nil {
			uc.logger.Warn("Failed to invalidate cached accommodation", zap.Int64("accommodation_id", id), zap.Error(err))
		}
	}
	if uc.metrics != nil {
		uc.metrics.AccommodationsDeletedTotal.Inc()
	}
	if uc.events != nil {
		eventData := map[string]interface{}{
			"accommodation_id": id,
			"broker_id":        acc.Broker.ID,
			"photo_count":      len(acc.Photos),
			"deleted_at":       time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := uc.events.Publish(ctx, "accommodation.deleted", eventData); err != nil {
			uc.logger.Warn("Failed to publish accommodation.deleted event", zap.Error(err), zap.Int64("accommodation_id", id))
		}
	}

	uc.logger.Info("Accommodation deleted", zap.Int64("accommodation_id", id))
	return nil
}
