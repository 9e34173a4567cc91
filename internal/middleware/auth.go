package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker/internal/model"
	"github.com/iliyamo/task-tracker/internal/session"
	"github.com/iliyamo/task-tracker/internal/utils"
)

// Context keys written by JWTAuth for downstream handlers.
const (
	ContextUser     = "user"      // *model.User of the authenticated caller
	ContextToken    = "token"     // raw bearer token string
	ContextTokenExp = "token_exp" // time.Time expiry of the token
)

// UserSource resolves a token subject to a stored user.  Satisfied by
// *repository.UserRepo; an interface here keeps the gate testable without a
// database.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// BearerToken extracts the token from an Authorization header value.  It
// returns false for a missing or non-Bearer header.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return raw, raw != ""
}

// JWTAuth returns the authentication gate applied to every task operation.
// The checks run in a fixed order, all before any task storage access:
//
//  1. bearer token present and well formed
//  2. signature and expiry valid
//  3. token not in the revocation registry
//  4. subject resolves to a stored user
//  5. user account is active
//
// Failures of 1–4 all produce the same 401 invalid-credentials response
// with a WWW-Authenticate: Bearer hint, so a caller cannot distinguish an
// unknown user from a bad signature or an expired token.  Only an inactive
// account is reported differently (403).  On success the user record, the
// raw token and its expiry are stored in the request context.
func JWTAuth(secret string, users UserSource, registry session.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(c)
			}

			username, exp, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				log.Printf("auth: token rejected: %v", err)
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			revoked, err := registry.IsRevoked(ctx, raw)
			if err != nil {
				incident := utils.NewIncidentID()
				log.Printf("auth: revocation check failed [incident %s]: %v", incident, err)
				return serverError(c, incident)
			}
			if revoked {
				return unauthorized(c)
			}

			u, err := users.GetByUsername(ctx, username)
			if err != nil {
				if err == sql.ErrNoRows {
					log.Printf("auth: token subject %q has no user record", username)
					return unauthorized(c)
				}
				incident := utils.NewIncidentID()
				log.Printf("auth: user lookup failed [incident %s]: %v", incident, err)
				return serverError(c, incident)
			}
			if !u.IsActive {
				log.Printf("auth: inactive account %q rejected", u.Username)
				return c.JSON(http.StatusForbidden, echo.Map{"error": "inactive account"})
			}

			c.Set(ContextUser, &u)
			c.Set(ContextToken, raw)
			c.Set(ContextTokenExp, exp)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by JWTAuth.  It
// re-checks the active flag so that a handler reached without the gate, or
// with a stale context value, still cannot act for a disabled account.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ContextUser).(*model.User)
	if !ok || u == nil || !u.IsActive {
		return nil, false
	}
	return u, true
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
}

func serverError(c echo.Context, incident string) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":       "internal error",
		"incident_id": incident,
	})
}
