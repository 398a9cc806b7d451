// Package main seeds the database with development data: one admin, one
// regular user and a few albums. Not for production use.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/waxlog/waxlog/internal/auth"
	"github.com/waxlog/waxlog/internal/config"
	"github.com/waxlog/waxlog/internal/model"
	"github.com/waxlog/waxlog/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	admin, err := seedUser(ctx, repo, "joe@example.com", "Joe Doe", "Password123", model.RoleAdmin)
	if err != nil {
		logger.Error("failed to seed admin", "error", err)
		os.Exit(1)
	}

	user, err := seedUser(ctx, repo, "megan@example.com", "Megan Wall", "Password456", model.RoleUser)
	if err != nil {
		logger.Error("failed to seed user", "error", err)
		os.Exit(1)
	}

	// Reseeding an already-seeded database only fills in missing users.
	existing, err := repo.ListAllAlbums(ctx)
	if err != nil {
		logger.Error("failed to check existing albums", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		logger.Info("albums already present, skipping", "count", len(existing))
		return
	}

	albums := []*model.Album{
		newAlbum(user.ID, "IGOR", "Tyler, The Creator", []string{"Hip-Hop", "Rap"}, 2019),
		newAlbum(user.ID, "CALL ME IF YOU GET LOST", "Tyler, The Creator", []string{"Hip-Hop", "Rap"}, 2021),
		newAlbum(admin.ID, "In Search Of...", "N.E.R.D", []string{"Rock", "Hip-Hop"}, 2002),
	}

	for _, album := range albums {
		if err := repo.CreateAlbum(ctx, album); err != nil {
			logger.Error("failed to seed album", "title", album.Title, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("seed complete", "users", 2, "albums", len(albums))
}

func seedUser(ctx context.Context, repo *repository.Repository, email, name, password string, role model.Role) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func newAlbum(ownerID, title, artist string, genre []string, year int) *model.Album {
	now := time.Now()
	return &model.Album{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Title:     title,
		Artist:    artist,
		Genre:     genre,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
