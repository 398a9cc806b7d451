package model

import "time"

// Album year bounds accepted at validation time.
const (
	AlbumYearMin = 1900
	AlbumYearMax = 2025
)

// Rating bounds shared by albums and reviews.
const (
	RatingMin = 0
	RatingMax = 10
)

// Album is a catalog entry owned by exactly one user. OwnerID is immutable
// after creation and never leaves the server.
type Album struct {
	ID        string
	OwnerID   string
	Title     string
	Artist    string
	Genre     []string
	Year      int
	Listened  bool
	Rating    *int
	Review    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
