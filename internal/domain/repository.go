package domain

import "context"

// UserRepository defines persistence for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

// AccommodationRepository defines persistence for accommodations.
type AccommodationRepository interface {
	Create(ctx context.Context, acc *Accommodation) (*Accommodation, error)
	FindByID(ctx context.Context, id int64) (*Accommodation, error)
	FindAll(ctx context.Context) ([]*Accommodation, error)
	FindByBrokerID(ctx context.Context, brokerID int64) ([]*Accommodation, error)
	Delete(ctx context.Context, id int64) error
}

// FileStore persists uploaded binary files and addresses them by public URL.
// StoreAll returns URLs in the same order as its input. Delete is idempotent:
// a URL whose backing file is already gone is not an error.
type FileStore interface {
	Store(ctx context.Context, originalName string, data []byte) (string, error)
	StoreAll(ctx context.Context, files []File) ([]string, error)
	Delete(ctx context.Context, url string) error
	DeleteAll(ctx context.Context, urls []string) error
}
