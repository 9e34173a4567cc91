package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker/internal/config"
	"github.com/iliyamo/task-tracker/internal/middleware"
	"github.com/iliyamo/task-tracker/internal/model"
	"github.com/iliyamo/task-tracker/internal/queue"
	"github.com/iliyamo/task-tracker/internal/repository"
	"github.com/iliyamo/task-tracker/internal/service"
	"github.com/iliyamo/task-tracker/internal/session"
	"github.com/iliyamo/task-tracker/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Registry session.Registry
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, reg session.Registry) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Registry: reg}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResp carries a user's public fields.  The password hash never leaves
// the repository layer.
type userResp struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates a new user account and returns its public fields.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Username, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return writeError(c, err)
	}
	log.Printf("auth: registered new user %q", u.Username)
	service.PublishActivity(queue.ActivityEvent{
		Action:   queue.ActionUserRegistered,
		Username: u.Username,
		At:       time.Now().UTC(),
	})
	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Token is the form-encoded credential exchange: username + password in,
// bearer access token out.  An unknown username and a wrong password are
// indistinguishable in the response.
func (h *AuthHandler) Token(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("auth: failed login attempt for %q", username)
			return invalidCredentials(c)
		}
		return writeError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		log.Printf("auth: failed login attempt for %q", username)
		return invalidCredentials(c)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Username, h.Cfg.AccessTTLMin)
	if err != nil {
		return writeError(c, err)
	}
	log.Printf("auth: issued access token for %q", u.Username)
	return c.JSON(http.StatusOK, tokenResp{AccessToken: access.Token, TokenType: "bearer"})
}

// Me returns the authenticated caller's public fields.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return invalidCredentials(c)
	}
	return c.JSON(http.StatusOK, toUserResp(*u))
}

// Logout adds the presented bearer token to the revocation registry so it
// stops resolving before its natural expiry.  The handler parses the
// Authorization header itself instead of sitting behind the authentication
// gate: the gate rejects revoked tokens, which would make a repeated logout
// fail, and logout must stay idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, ok := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return invalidCredentials(c)
	}
	_, exp, err := utils.VerifyAccessToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return invalidCredentials(c)
	}
	ttl := time.Until(exp)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Registry.Revoke(ctx, raw, ttl); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detail": "successfully logged out"})
}

func invalidCredentials(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
}
