//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/waxlog/waxlog/internal/model"
	"github.com/waxlog/waxlog/internal/testutil"
)

// setupRepo connects to TEST_DATABASE_URL, serializes against other DB
// tests and resets the schema. Skipped when the variable is unset.
func setupRepo(t *testing.T) (*Repository, context.Context) {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	repo, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.pool)
	if err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("failed to release lock: %v", err)
		}
	})

	if err := testutil.ResetSchema(ctx, repo.pool); err != nil {
		t.Fatalf("failed to reset schema: %v", err)
	}

	return repo, ctx
}

func mustCreateUser(t *testing.T, ctx context.Context, repo *Repository, email string) *model.User {
	t.Helper()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func mustCreateAlbum(t *testing.T, ctx context.Context, repo *Repository, ownerID string) *model.Album {
	t.Helper()
	now := time.Now()
	album := &model.Album{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Title:     "IGOR",
		Artist:    "Tyler, The Creator",
		Genre:     []string{"Hip-Hop", "Rap"},
		Year:      2019,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateAlbum(ctx, album); err != nil {
		t.Fatalf("failed to create album: %v", err)
	}
	return album
}

func TestUserRepository(t *testing.T) {
	repo, ctx := setupRepo(t)

	user := mustCreateUser(t, ctx, repo, "joe@example.com")

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Email != user.Email || got.Role != model.RoleUser {
			t.Errorf("unexpected user: %+v", got)
		}
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetUserByEmail(ctx, "joe@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("email lookup is byte exact", func(t *testing.T) {
		if _, err := repo.GetUserByEmail(ctx, "JOE@example.com"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound for different casing, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := &model.User{
			ID:           ulid.Make().String(),
			Email:        "joe@example.com",
			Name:         "Other",
			PasswordHash: "x",
			Role:         model.RoleUser,
			CreatedAt:    time.Now(),
		}
		if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrEmailExists) {
			t.Errorf("expected ErrEmailExists, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := repo.GetUserByID(ctx, ulid.Make().String()); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAlbumRepository(t *testing.T) {
	repo, ctx := setupRepo(t)

	owner := mustCreateUser(t, ctx, repo, "owner@example.com")
	other := mustCreateUser(t, ctx, repo, "other@example.com")
	album := mustCreateAlbum(t, ctx, repo, owner.ID)

	t.Run("round trip with genre array", func(t *testing.T) {
		got, err := repo.GetAlbum(ctx, album.ID, owner.ID)
		if err != nil {
			t.Fatalf("GetAlbum failed: %v", err)
		}
		if len(got.Genre) != 2 || got.Genre[0] != "Hip-Hop" || got.Genre[1] != "Rap" {
			t.Errorf("genre did not round-trip: %v", got.Genre)
		}
		if got.Listened {
			t.Error("listened should default to false")
		}
		if got.Rating != nil || got.Review != nil {
			t.Error("optional fields should be null")
		}
	})

	t.Run("other owner sees not found", func(t *testing.T) {
		if _, err := repo.GetAlbum(ctx, album.ID, other.ID); !errors.Is(err, ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound, got %v", err)
		}
	})

	t.Run("list is owner scoped", func(t *testing.T) {
		mustCreateAlbum(t, ctx, repo, other.ID)

		albums, err := repo.ListAlbumsByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListAlbumsByOwner failed: %v", err)
		}
		if len(albums) != 1 || albums[0].ID != album.ID {
			t.Errorf("expected only the owner's album, got %d", len(albums))
		}

		all, err := repo.ListAllAlbums(ctx)
		if err != nil {
			t.Fatalf("ListAllAlbums failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 albums overall, got %d", len(all))
		}
	})

	t.Run("update replaces required and keeps nil optionals", func(t *testing.T) {
		rating := 9
		updated, err := repo.UpdateAlbum(ctx, album.ID, owner.ID, AlbumUpdate{
			Title:  "IGOR (Deluxe)",
			Artist: album.Artist,
			Genre:  []string{"Hip-Hop"},
			Year:   2019,
			Rating: &rating,
		})
		if err != nil {
			t.Fatalf("UpdateAlbum failed: %v", err)
		}
		if updated.Title != "IGOR (Deluxe)" {
			t.Errorf("title not updated: %s", updated.Title)
		}
		if updated.Rating == nil || *updated.Rating != 9 {
			t.Errorf("rating not updated: %v", updated.Rating)
		}
		if updated.Listened {
			t.Error("nil listened must leave the stored value")
		}

		// Second update without rating keeps the previous one.
		updated, err = repo.UpdateAlbum(ctx, album.ID, owner.ID, AlbumUpdate{
			Title:  updated.Title,
			Artist: updated.Artist,
			Genre:  updated.Genre,
			Year:   updated.Year,
		})
		if err != nil {
			t.Fatalf("UpdateAlbum failed: %v", err)
		}
		if updated.Rating == nil || *updated.Rating != 9 {
			t.Errorf("nil rating must leave the stored value, got %v", updated.Rating)
		}
	})

	t.Run("update not owned", func(t *testing.T) {
		_, err := repo.UpdateAlbum(ctx, album.ID, other.ID, AlbumUpdate{
			Title: "Hijacked", Artist: "X", Genre: []string{"Pop"}, Year: 2020,
		})
		if !errors.Is(err, ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteAlbum(ctx, album.ID, other.ID); !errors.Is(err, ErrAlbumNotFound) {
			t.Errorf("delete by non-owner must report not found, got %v", err)
		}
		if err := repo.DeleteAlbum(ctx, album.ID, owner.ID); err != nil {
			t.Fatalf("DeleteAlbum failed: %v", err)
		}
		if err := repo.DeleteAlbum(ctx, album.ID, owner.ID); !errors.Is(err, ErrAlbumNotFound) {
			t.Errorf("expected ErrAlbumNotFound after delete, got %v", err)
		}
	})
}

func TestReviewRepository(t *testing.T) {
	repo, ctx := setupRepo(t)

	owner := mustCreateUser(t, ctx, repo, "owner@example.com")
	other := mustCreateUser(t, ctx, repo, "other@example.com")
	albumID := ulid.Make().String()

	newReview := func(ownerID string) *model.Review {
		now := time.Now()
		return &model.Review{
			ID:        ulid.Make().String(),
			OwnerID:   ownerID,
			AlbumID:   albumID,
			Rating:    8,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	review := newReview(owner.ID)
	if err := repo.CreateReview(ctx, review); err != nil {
		t.Fatalf("CreateReview failed: %v", err)
	}

	t.Run("unique per album and owner", func(t *testing.T) {
		if err := repo.CreateReview(ctx, newReview(owner.ID)); !errors.Is(err, ErrDuplicateReview) {
			t.Errorf("expected ErrDuplicateReview, got %v", err)
		}
		// A different owner may review the same album.
		if err := repo.CreateReview(ctx, newReview(other.ID)); err != nil {
			t.Errorf("second owner should be allowed: %v", err)
		}
	})

	t.Run("get for album", func(t *testing.T) {
		got, err := repo.GetReviewForAlbum(ctx, albumID, owner.ID)
		if err != nil {
			t.Fatalf("GetReviewForAlbum failed: %v", err)
		}
		if got.ID != review.ID {
			t.Errorf("expected %s, got %s", review.ID, got.ID)
		}

		if _, err := repo.GetReviewForAlbum(ctx, ulid.Make().String(), owner.ID); !errors.Is(err, ErrReviewNotFound) {
			t.Errorf("expected ErrReviewNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		comment := "still holds up"
		updated, err := repo.UpdateReview(ctx, review.ID, owner.ID, ReviewUpdate{Rating: 10, Comment: &comment})
		if err != nil {
			t.Fatalf("UpdateReview failed: %v", err)
		}
		if updated.Rating != 10 || updated.Comment == nil || *updated.Comment != comment {
			t.Errorf("unexpected review: %+v", updated)
		}
		if updated.AlbumID != albumID {
			t.Errorf("album reference must not change, got %s", updated.AlbumID)
		}
	})

	t.Run("owner scoping", func(t *testing.T) {
		if _, err := repo.GetReview(ctx, review.ID, other.ID); !errors.Is(err, ErrReviewNotFound) {
			t.Errorf("expected ErrReviewNotFound, got %v", err)
		}
		if err := repo.DeleteReview(ctx, review.ID, other.ID); !errors.Is(err, ErrReviewNotFound) {
			t.Errorf("expected ErrReviewNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteReview(ctx, review.ID, owner.ID); err != nil {
			t.Fatalf("DeleteReview failed: %v", err)
		}
		if _, err := repo.GetReview(ctx, review.ID, owner.ID); !errors.Is(err, ErrReviewNotFound) {
			t.Errorf("expected ErrReviewNotFound after delete, got %v", err)
		}
	})
}
