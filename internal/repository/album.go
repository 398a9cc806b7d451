package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/waxlog/waxlog/internal/model"
)

// ErrAlbumNotFound covers both true absence and ownership mismatch: every
// owner-scoped query filters on (id, owner_id), so a record owned by
// another user is indistinguishable from a nonexistent one.
var ErrAlbumNotFound = errors.New("album not found")

// AlbumUpdate carries the replacement fields for an album. Nil optional
// fields leave the stored value unchanged.
type AlbumUpdate struct {
	Title    string
	Artist   string
	Genre    []string
	Year     int
	Listened *bool
	Rating   *int
	Review   *string
}

// CreateAlbum inserts a new album.
func (r *Repository) CreateAlbum(ctx context.Context, album *model.Album) error {
	query := `
		INSERT INTO albums (id, owner_id, title, artist, genre, year, listened, rating, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		album.ID,
		album.OwnerID,
		album.Title,
		album.Artist,
		pq.Array(album.Genre),
		album.Year,
		album.Listened,
		album.Rating,
		album.Review,
		album.CreatedAt,
		album.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}

	return nil
}

// GetAlbum retrieves an album by (id, owner).
func (r *Repository) GetAlbum(ctx context.Context, id, ownerID string) (*model.Album, error) {
	query := `
		SELECT id, owner_id, title, artist, genre, year, listened, rating, review, created_at, updated_at
		FROM albums
		WHERE id = $1 AND owner_id = $2
	`

	album, err := scanAlbum(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	return album, nil
}

// ListAlbumsByOwner retrieves all albums owned by one user.
func (r *Repository) ListAlbumsByOwner(ctx context.Context, ownerID string) ([]*model.Album, error) {
	query := `
		SELECT id, owner_id, title, artist, genre, year, listened, rating, review, created_at, updated_at
		FROM albums
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	return collectAlbums(rows)
}

// ListAllAlbums retrieves every album regardless of owner. Admin-only.
func (r *Repository) ListAllAlbums(ctx context.Context) ([]*model.Album, error) {
	query := `
		SELECT id, owner_id, title, artist, genre, year, listened, rating, review, created_at, updated_at
		FROM albums
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all albums: %w", err)
	}
	defer rows.Close()

	return collectAlbums(rows)
}

// UpdateAlbum performs a combined filter-and-mutate on (id, owner) and
// returns the updated row. No match yields ErrAlbumNotFound.
func (r *Repository) UpdateAlbum(ctx context.Context, id, ownerID string, upd AlbumUpdate) (*model.Album, error) {
	query := `
		UPDATE albums
		SET title = $3,
		    artist = $4,
		    genre = $5,
		    year = $6,
		    listened = COALESCE($7, listened),
		    rating = COALESCE($8, rating),
		    review = COALESCE($9, review),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, title, artist, genre, year, listened, rating, review, created_at, updated_at
	`

	album, err := scanAlbum(r.pool.QueryRow(ctx, query,
		id,
		ownerID,
		upd.Title,
		upd.Artist,
		pq.Array(upd.Genre),
		upd.Year,
		upd.Listened,
		upd.Rating,
		upd.Review,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("failed to update album: %w", err)
	}

	return album, nil
}

// DeleteAlbum removes an album by (id, owner). No match yields
// ErrAlbumNotFound.
func (r *Repository) DeleteAlbum(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM albums WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlbumNotFound
	}

	return nil
}

func scanAlbum(row pgx.Row) (*model.Album, error) {
	var album model.Album
	var genre []string
	err := row.Scan(
		&album.ID,
		&album.OwnerID,
		&album.Title,
		&album.Artist,
		pq.Array(&genre),
		&album.Year,
		&album.Listened,
		&album.Rating,
		&album.Review,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	album.Genre = genre
	return &album, nil
}

func collectAlbums(rows pgx.Rows) ([]*model.Album, error) {
	var albums []*model.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to collect albums: %w", err)
	}

	return albums, nil
}
