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

// ReviewStore is the persistence surface for review handlers.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *model.Review) error
	GetReview(ctx context.Context, id, ownerID string) (*model.Review, error)
	GetReviewForAlbum(ctx context.Context, albumID, ownerID string) (*model.Review, error)
	ListReviewsByOwner(ctx context.Context, ownerID string) ([]*model.Review, error)
	UpdateReview(ctx context.Context, id, ownerID string, upd repository.ReviewUpdate) (*model.Review, error)
	DeleteReview(ctx context.Context, id, ownerID string) error
}

// ReviewHandler handles HTTP requests for review operations.
type ReviewHandler struct {
	store  ReviewStore
	logger *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(store ReviewStore, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{store: store, logger: logger}
}

// List handles GET /reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	reviews, err := h.store.ListReviewsByOwner(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReviewListResponse(reviews))
}

// Get handles GET /reviews/{id}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	review, err := h.store.GetReview(r.Context(), id, identity.UserID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReviewResponse(review))
}

// Create handles POST /reviews. One review per (user, album): a
// pre-insert lookup gives the friendly conflict message, and the store's
// unique index closes the race window behind it.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	body, err := decodeBody(r)
	if err != nil {
		respondError(w, r, h.logger, apperr.Validation("Invalid request body"))
		return
	}

	if violations := validate.Fields(validate.Request{Body: body}, validate.ReviewSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return
	}

	albumID := bodyString(body, "albumId")

	_, err = h.store.GetReviewForAlbum(r.Context(), albumID, identity.UserID)
	if err == nil {
		respondError(w, r, h.logger, apperr.Conflict("You have already reviewed this album"))
		return
	}
	if !errors.Is(err, repository.ErrReviewNotFound) {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	now := time.Now()
	review := &model.Review{
		ID:        ulid.Make().String(),
		OwnerID:   identity.UserID,
		AlbumID:   albumID,
		Rating:    bodyInt(body, "rating"),
		Comment:   bodyOptString(body, "comment"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateReview(r.Context(), review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			respondError(w, r, h.logger, apperr.Conflict("You have already reviewed this album"))
			return
		}
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	h.logger.Info("review_created", "review_id", review.ID, "album_id", albumID)

	writeJSON(w, http.StatusCreated, dto.ToReviewResponse(review))
}

// Update handles PUT /reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		respondError(w, r, h.logger, apperr.Validation("Invalid request body"))
		return
	}

	if violations := validate.Fields(validate.Request{Body: body}, validate.ReviewUpdateSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return
	}

	upd := repository.ReviewUpdate{
		Rating:  bodyInt(body, "rating"),
		Comment: bodyOptString(body, "comment"),
	}

	review, err := h.store.UpdateReview(r.Context(), id, identity.UserID, upd)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.Info("review_updated", "review_id", review.ID)

	writeJSON(w, http.StatusOK, dto.ToReviewResponse(review))
}

// Delete handles DELETE /reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteReview(r.Context(), id, identity.UserID); err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.logger.Info("review_deleted", "review_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Review deleted successfully"})
}

// reviewID validates the route id shape and responds on failure.
func (h *ReviewHandler) reviewID(w http.ResponseWriter, r *http.Request) (string, bool) {
	params := map[string]string{"id": chi.URLParam(r, "id")}
	if violations := validate.Fields(validate.Request{Params: params}, validate.ReviewIDSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return "", false
	}
	return params["id"], true
}

func (h *ReviewHandler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrReviewNotFound) {
		respondError(w, r, h.logger, apperr.NotFound("Could not find review"))
		return
	}
	respondError(w, r, h.logger, apperr.Internal(err))
}
