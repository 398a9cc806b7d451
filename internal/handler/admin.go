package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/waxlog/waxlog/internal/apperr"
	"github.com/waxlog/waxlog/internal/handler/dto"
	"github.com/waxlog/waxlog/internal/model"
)

// AdminStore is the unscoped persistence surface for admin listings.
type AdminStore interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListAllAlbums(ctx context.Context) ([]*model.Album, error)
}

// AdminHandler serves the admin-only listing endpoints. Routes must sit
// behind the RequireAdmin gate.
type AdminHandler struct {
	store  AdminStore
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store AdminStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// ListAlbums handles GET /admin/albums, returning every user's albums.
func (h *AdminHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.store.ListAllAlbums(r.Context())
	if err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAlbumListResponse(albums))
}
