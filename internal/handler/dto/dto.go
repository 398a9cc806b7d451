// Package dto provides Data Transfer Objects for API requests and responses.
// Responses expose a single string id and never carry owner references,
// password hashes or storage timestamps.
package dto

import "github.com/waxlog/waxlog/internal/model"

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionUserResponse is returned by register and login.
type SessionUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserResponse is the admin-facing user representation.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AlbumResponse represents an album in API responses.
type AlbumResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Genre    []string `json:"genre"`
	Year     int      `json:"year"`
	Listened bool     `json:"listened"`
	Rating   *int     `json:"rating,omitempty"`
	Review   *string  `json:"review,omitempty"`
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ID      string  `json:"id"`
	AlbumID string  `json:"albumId"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// ToSessionUserResponse converts a User for the auth endpoints.
func ToSessionUserResponse(user *model.User) SessionUserResponse {
	return SessionUserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToUserResponse converts a User for the admin listing.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
}

// ToUserListResponse converts a slice of Users.
func ToUserListResponse(users []*model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out
}

// ToAlbumResponse converts an Album model to its response form.
func ToAlbumResponse(album *model.Album) AlbumResponse {
	genre := album.Genre
	if genre == nil {
		genre = []string{}
	}
	return AlbumResponse{
		ID:       album.ID,
		Title:    album.Title,
		Artist:   album.Artist,
		Genre:    genre,
		Year:     album.Year,
		Listened: album.Listened,
		Rating:   album.Rating,
		Review:   album.Review,
	}
}

// ToAlbumListResponse converts a slice of Albums.
func ToAlbumListResponse(albums []*model.Album) []AlbumResponse {
	out := make([]AlbumResponse, len(albums))
	for i, a := range albums {
		out[i] = ToAlbumResponse(a)
	}
	return out
}

// ToReviewResponse converts a Review model to its response form.
func ToReviewResponse(review *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID,
		AlbumID: review.AlbumID,
		Rating:  review.Rating,
		Comment: review.Comment,
	}
}

// ToReviewListResponse converts a slice of Reviews.
func ToReviewListResponse(reviews []*model.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = ToReviewResponse(rv)
	}
	return out
}
