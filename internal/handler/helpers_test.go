package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/waxlog/waxlog/internal/auth"
	"github.com/waxlog/waxlog/internal/model"
	"github.com/waxlog/waxlog/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withIdentity injects an authenticated identity the way the auth
// middleware would, so handlers are tested in isolation from it.
func withIdentity(userID string, role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := &auth.Identity{UserID: userID, Role: role}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newID(t *testing.T) string {
	t.Helper()
	return ulid.Make().String()
}

// fakeUserStore backs auth handler tests.
type fakeUserStore struct {
	byEmail   map[string]*model.User
	createErr error
	created   []*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return repository.ErrEmailExists
	}
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

// fakeSessionWriter backs auth handler tests.
type fakeSessionWriter struct {
	createErr  error
	destroyErr error
	destroyed  []string
}

func (f *fakeSessionWriter) Create(_ context.Context, userID string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "session-for-" + userID, nil
}

func (f *fakeSessionWriter) Destroy(_ context.Context, token string) error {
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, token)
	return nil
}

// fakeAlbumStore is an owner-scoped in-memory AlbumStore.
type fakeAlbumStore struct {
	albums    map[string]*model.Album
	createErr error
}

func newFakeAlbumStore() *fakeAlbumStore {
	return &fakeAlbumStore{albums: make(map[string]*model.Album)}
}

func (f *fakeAlbumStore) CreateAlbum(_ context.Context, album *model.Album) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.albums[album.ID] = album
	return nil
}

func (f *fakeAlbumStore) GetAlbum(_ context.Context, id, ownerID string) (*model.Album, error) {
	album, ok := f.albums[id]
	if !ok || album.OwnerID != ownerID {
		return nil, repository.ErrAlbumNotFound
	}
	return album, nil
}

func (f *fakeAlbumStore) ListAlbumsByOwner(_ context.Context, ownerID string) ([]*model.Album, error) {
	var out []*model.Album
	for _, album := range f.albums {
		if album.OwnerID == ownerID {
			out = append(out, album)
		}
	}
	return out, nil
}

func (f *fakeAlbumStore) UpdateAlbum(_ context.Context, id, ownerID string, upd repository.AlbumUpdate) (*model.Album, error) {
	album, ok := f.albums[id]
	if !ok || album.OwnerID != ownerID {
		return nil, repository.ErrAlbumNotFound
	}
	album.Title = upd.Title
	album.Artist = upd.Artist
	album.Genre = upd.Genre
	album.Year = upd.Year
	if upd.Listened != nil {
		album.Listened = *upd.Listened
	}
	if upd.Rating != nil {
		album.Rating = upd.Rating
	}
	if upd.Review != nil {
		album.Review = upd.Review
	}
	album.UpdatedAt = time.Now()
	return album, nil
}

func (f *fakeAlbumStore) DeleteAlbum(_ context.Context, id, ownerID string) error {
	album, ok := f.albums[id]
	if !ok || album.OwnerID != ownerID {
		return repository.ErrAlbumNotFound
	}
	delete(f.albums, id)
	return nil
}

// fakeReviewStore is an owner-scoped in-memory ReviewStore.
type fakeReviewStore struct {
	reviews map[string]*model.Review
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: make(map[string]*model.Review)}
}

func (f *fakeReviewStore) CreateReview(_ context.Context, review *model.Review) error {
	for _, existing := range f.reviews {
		if existing.AlbumID == review.AlbumID && existing.OwnerID == review.OwnerID {
			return repository.ErrDuplicateReview
		}
	}
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewStore) GetReview(_ context.Context, id, ownerID string) (*model.Review, error) {
	review, ok := f.reviews[id]
	if !ok || review.OwnerID != ownerID {
		return nil, repository.ErrReviewNotFound
	}
	return review, nil
}

func (f *fakeReviewStore) GetReviewForAlbum(_ context.Context, albumID, ownerID string) (*model.Review, error) {
	for _, review := range f.reviews {
		if review.AlbumID == albumID && review.OwnerID == ownerID {
			return review, nil
		}
	}
	return nil, repository.ErrReviewNotFound
}

func (f *fakeReviewStore) ListReviewsByOwner(_ context.Context, ownerID string) ([]*model.Review, error) {
	var out []*model.Review
	for _, review := range f.reviews {
		if review.OwnerID == ownerID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) UpdateReview(_ context.Context, id, ownerID string, upd repository.ReviewUpdate) (*model.Review, error) {
	review, ok := f.reviews[id]
	if !ok || review.OwnerID != ownerID {
		return nil, repository.ErrReviewNotFound
	}
	review.Rating = upd.Rating
	if upd.Comment != nil {
		review.Comment = upd.Comment
	}
	review.UpdatedAt = time.Now()
	return review, nil
}

func (f *fakeReviewStore) DeleteReview(_ context.Context, id, ownerID string) error {
	review, ok := f.reviews[id]
	if !ok || review.OwnerID != ownerID {
		return repository.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

// albumRouter mounts album routes with a fixed caller identity.
func albumRouter(store *fakeAlbumStore, userID string) http.Handler {
	h := NewAlbumHandler(store, testLogger())
	r := chi.NewRouter()
	r.Use(withIdentity(userID, model.RoleUser))
	r.Get("/albums", h.List)
	r.Post("/albums", h.Create)
	r.Get("/albums/{id}", h.Get)
	r.Put("/albums/{id}", h.Update)
	r.Delete("/albums/{id}", h.Delete)
	return r
}

// reviewRouter mounts review routes with a fixed caller identity.
func reviewRouter(store *fakeReviewStore, userID string, role model.Role) http.Handler {
	h := NewReviewHandler(store, testLogger())
	r := chi.NewRouter()
	r.Use(withIdentity(userID, role))
	r.Get("/reviews", h.List)
	r.Post("/reviews", h.Create)
	r.Get("/reviews/{id}", h.Get)
	r.Put("/reviews/{id}", h.Update)
	r.Delete("/reviews/{id}", h.Delete)
	return r
}
