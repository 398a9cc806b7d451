package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/waxlog/waxlog/internal/apperr"
	"github.com/waxlog/waxlog/internal/auth"
	"github.com/waxlog/waxlog/internal/handler/dto"
	"github.com/waxlog/waxlog/internal/model"
	"github.com/waxlog/waxlog/internal/repository"
	"github.com/waxlog/waxlog/internal/session"
	"github.com/waxlog/waxlog/internal/validate"
)

// UserStore is the credential persistence the auth handler needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionWriter issues and destroys sessions.
type SessionWriter interface {
	Create(ctx context.Context, userID string) (string, error)
	Destroy(ctx context.Context, token string) error
}

// CookieConfig describes the session cookie transport.
type CookieConfig struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Secure bool
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users    UserStore
	sessions SessionWriter
	cookie   CookieConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users UserStore, sessions SessionWriter, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondError(w, r, h.logger, apperr.Validation("Invalid request body"))
		return
	}

	if violations := validate.Fields(validate.Request{Body: body}, validate.RegisterSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return
	}

	email := bodyString(body, "email")

	// Friendly duplicate check; the unique index backs it up under races.
	if _, err := h.users.GetUserByEmail(r.Context(), email); err == nil {
		respondError(w, r, h.logger, apperr.Conflict("Email already registered"))
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	passwordHash, err := auth.HashPassword(bodyString(body, "password"))
	if err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         bodyString(body, "name"),
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			respondError(w, r, h.logger, apperr.Conflict("Email already registered"))
			return
		}
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	// Registration logs the user in.
	if err := h.startSession(w, r, user.ID); err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToSessionUserResponse(user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		respondError(w, r, h.logger, apperr.Validation("Invalid request body"))
		return
	}

	if violations := validate.Fields(validate.Request{Body: body}, validate.LoginSchema); len(violations) > 0 {
		respondError(w, r, h.logger, validationError(violations))
		return
	}

	// Unknown email and wrong password produce the same response.
	user, err := h.users.GetUserByEmail(r.Context(), bodyString(body, "email"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, r, h.logger, apperr.Unauthorized("Invalid email or password"))
			return
		}
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	if !auth.VerifyPassword(bodyString(body, "password"), user.PasswordHash) {
		respondError(w, r, h.logger, apperr.Unauthorized("Invalid email or password"))
		return
	}

	if err := h.startSession(w, r, user.ID); err != nil {
		respondError(w, r, h.logger, apperr.Internal(err))
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToSessionUserResponse(user))
}

// Logout handles POST /auth/logout. Requires auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil {
		respondError(w, r, h.logger, apperr.AuthRequired())
		return
	}

	token, ok := session.ParseSignedToken(h.cookie.Secret, cookie.Value)
	if !ok {
		respondError(w, r, h.logger, apperr.AuthRequired())
		return
	}

	if err := h.sessions.Destroy(r.Context(), token); err != nil {
		respondError(w, r, h.logger, &apperr.Error{
			Kind:    apperr.KindInternal,
			Message: "Failed to logout",
			Err:     err,
		})
		return
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// startSession issues a session and sets the signed cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID string) error {
	token, err := h.sessions.Create(r.Context(), userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.SignToken(h.cookie.Secret, token),
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
