package domain

import "time"

// Accommodation is a broker-posted listing. Photos holds the public URLs of
// the stored files this listing exclusively owns.
type Accommodation struct {
	ID                     int64
	Title                  string
	Address                string
	Price                  float64
	DistanceFromUniversity float64
	Amenities              []string
	Photos                 []string
	ContactEmail           string
	ContactPhone           string
	Broker                 *User
	CreatedAt              time.Time
}

// AccommodationDraft is the unvalidated input payload for creating an
// accommodation. The broker identity is not part of the draft; it comes from
// the authenticated caller.
type AccommodationDraft struct {
	Title                  string
	Address                string
	Price                  float64
	DistanceFromUniversity float64
	Amenities              []string
	ContactEmail           string
	ContactPhone           string
}

// File is an uploaded binary attachment prior to storage.
type File struct {
	Name string
	Data []byte
}
