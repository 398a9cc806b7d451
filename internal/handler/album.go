package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/waxlog/waxlog/internal/apperr"
	"github.com/waxlog/waxlog/internal/auth"
	"github.com/waxlog/waxlog/internal/handler/dto"
	"github.com/waxlog/waxlog/internal/model"
	"github.com/waxlog/waxlog/internal/repository"
	"github.com/waxlog/waxlog/internal/validate"
)

// AlbumStore is the persistence surface for album handlers. Every
// non-admin operation is owner-scoped.
type AlbumStore interface {
	CreateAlbum(ctx context.Context, album *model.Album) error
	GetAlbum(ctx context.Context, id, ownerID string) (*model.Album, error)
	ListAlbumsByOwner(ctx context.Context, ownerID string) ([]*model.Album, error)
	UpdateAlbum(ctx context.Context, id, ownerID string, upd repository.AlbumUpdate) (*model.Album, error)
	DeleteAlbum(ctx context.Context, id, ownerID string) error
}

// AlbumHandler handles HTTP requests for album operations.
type AlbumHandler struct {
	store  AlbumStore
	logger *slog.Logger
}

// NewAlbumHandler creates a new AlbumHandler.
func NewAlbumHandler(store AlbumStore, logger *slog.Logger) *AlbumHandler {
	return &AlbumHandler{store: store, logger: logger}
}

// List handles GET /albums.
func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	albums, err := h.store.ListAlbumsByOwner(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAlbumListResponse(albums))
}

// Get handles GET /albums/{id}.
func (h *AlbumHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.albumID(w, r)
	if !ok {
		return
	}

	album, err := h.store.GetAlbum(r.Context(), id, identity.UserID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToAlbumResponse(album))
}

// Create handles POST /albums.
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	body, err := decodeBody(r)
	if err != nil {
		respondError(w, r, h.logger, apperr.Validation("Invalid request body"))
		return
	}

	if violations := validate.Fields(validate.Request{Body: body}, validate.AlbumSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return
	}

	now := time.Now()
	album := &model.Album{
		ID:        ulid.Make().String(),
		OwnerID:   identity.UserID,
		Title:     bodyString(body, "title"),
		Artist:    bodyString(body, "artist"),
		Genre:     bodyStringSlice(body, "genre"),
		Year:      bodyInt(body, "year"),
		Rating:    bodyOptInt(body, "rating"),
		Review:    bodyOptString(body, "review"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if listened := bodyOptBool(body, "listened"); listened != nil {
		album.Listened = *listened
	}

	if err := h.store.CreateAlbum(r.Context(), album); err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	h.logger.Info("album_created", "album_id", album.ID)

	writeJSON(w, http.StatusCreated, dto.ToAlbumResponse(album))
}

// Update handles PUT /albums/{id}. The id schema runs first; the body
// schema runs only once the id shape is valid.
func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.albumID(w, r)
	if !ok {
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		respondError(w, r, h.logger, apperr.Validation("Invalid request body"))
		return
	}

	if violations := validate.Fields(validate.Request{Body: body}, validate.AlbumSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return
	}

	upd := repository.AlbumUpdate{
		Title:    bodyString(body, "title"),
		Artist:   bodyString(body, "artist"),
		Genre:    bodyStringSlice(body, "genre"),
		Year:     bodyInt(body, "year"),
		Listened: bodyOptBool(body, "listened"),
		Rating:   bodyOptInt(body, "rating"),
		Review:   bodyOptString(body, "review"),
	}

	album, err := h.store.UpdateAlbum(r.Context(), id, identity.UserID, upd)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.Info("album_updated", "album_id", album.ID)

	writeJSON(w, http.StatusOK, dto.ToAlbumResponse(album))
}

// Delete handles DELETE /albums/{id}.
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.albumID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteAlbum(r.Context(), id, identity.UserID); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.Info("album_deleted", "album_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// albumID validates the route id shape and responds on failure.
func (h *AlbumHandler) albumID(w http.ResponseWriter, r *http.Request) (string, bool) {
	params := map[string]string{"id": chi.URLParam(r, "id")}
	if violations := validate.Fields(validate.Request{Params: params}, validate.AlbumIDSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return "", false
	}
	return params["id"], true
}

// respondStoreError maps album store errors. A record owned by someone
// else surfaces exactly like a missing one.
func (h *AlbumHandler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrAlbumNotFound) {
		respondError(w, r, h.logger, apperr.NotFound("Could not find album"))
		return
	}
	respondError(w, r, h.logger, apperr.Internal(err))
}
