package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/waxlog/waxlog/internal/model"
)

// Common errors for review repository operations.
var (
	// ErrReviewNotFound covers absence and ownership mismatch alike.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is raised by the (album_id, owner_id) unique index
	// when the pre-insert check loses a race against a concurrent submit.
	ErrDuplicateReview = errors.New("review already exists for album")
)

// ReviewUpdate carries the replacement fields for a review.
type ReviewUpdate struct {
	Rating  int
	Comment *string
}

// CreateReview inserts a new review.
func (r *Repository) CreateReview(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, owner_id, album_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.OwnerID,
		review.AlbumID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetReview retrieves a review by (id, owner).
func (r *Repository) GetReview(ctx context.Context, id, ownerID string) (*model.Review, error) {
	query := `
		SELECT id, owner_id, album_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE id = $1 AND owner_id = $2
	`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// GetReviewForAlbum retrieves a user's review of an album, if any.
// Used for the pre-insert duplicate check.
func (r *Repository) GetReviewForAlbum(ctx context.Context, albumID, ownerID string) (*model.Review, error) {
	query := `
		SELECT id, owner_id, album_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE album_id = $1 AND owner_id = $2
	`

	review, err := scanReview(r.pool.QueryRow(ctx, query, albumID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review for album: %w", err)
	}

	return review, nil
}

// ListReviewsByOwner retrieves all reviews written by one user.
func (r *Repository) ListReviewsByOwner(ctx context.Context, ownerID string) ([]*model.Review, error) {
	query := `
		SELECT id, owner_id, album_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

// UpdateReview performs a combined filter-and-mutate on (id, owner) and
// returns the updated row. No match yields ErrReviewNotFound.
func (r *Repository) UpdateReview(ctx context.Context, id, ownerID string, upd ReviewUpdate) (*model.Review, error) {
	query := `
		UPDATE reviews
		SET rating = $3,
		    comment = COALESCE($4, comment),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, album_id, rating, comment, created_at, updated_at
	`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id, ownerID, upd.Rating, upd.Comment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// DeleteReview removes a review by (id, owner). No match yields
// ErrReviewNotFound.
func (r *Repository) DeleteReview(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM reviews WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}

func scanReview(row pgx.Row) (*model.Review, error) {
	var review model.Review
	err := row.Scan(
		&review.ID,
		&review.OwnerID,
		&review.AlbumID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
