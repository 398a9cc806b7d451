package model

import "time"

// Review is a user's rating of an album. A user holds at most one review
// per album.
type Review struct {
	ID        string
	OwnerID   string
	AlbumID   string
	Rating    int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
