package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/campusnest/accommodation-service/internal/domain"
)

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockAccommodationRepository struct{ mock.Mock }

func (m *MockAccommodationRepository) Create(ctx context.Context, acc *domain.Accommodation) (*domain.Accommodation, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}
func (m *MockAccommodationRepository) FindByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}
func (m *MockAccommodationRepository) FindAll(ctx context.Context) ([]*domain.Accommodation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Accommodation), args.Error(1)
}
func (m *MockAccommodationRepository) FindByBrokerID(ctx context.Context, brokerID int64) ([]*domain.Accommodation, error) {
	args := m.Called(ctx, brokerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Accommodation), args.Error(1)
}
func (m *MockAccommodationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileStore struct{ mock.Mock }

func (m *MockFileStore) Store(ctx context.Context, originalName string, data []byte) (string, error) {
	args := m.Called(ctx, originalName, data)
	return args.String(0), args.Error(1)
}
func (m *MockFileStore) StoreAll(ctx context.Context, files []domain.File) ([]string, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockFileStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
func (m *MockFileStore) DeleteAll(ctx context.Context, urls []string) error {
	args := m.Called(ctx, urls)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}
