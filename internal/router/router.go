package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/task-tracker/internal/config"
	"github.com/iliyamo/task-tracker/internal/handler"
	"github.com/iliyamo/task-tracker/internal/middleware"
	"github.com/iliyamo/task-tracker/internal/repository"
	"github.com/iliyamo/task-tracker/internal/session"
)

// Register wires every route of the service onto the Echo instance.
//
// Unauthenticated: health check, registration and the credential exchange
// (the latter behind the optional login rate limiter).  Everything else
// runs behind the JWT authentication gate, which resolves the bearer token
// to an active user before any task storage is touched.
func Register(
	e *echo.Echo,
	cfg config.Config,
	auth *handler.AuthHandler,
	tasks *handler.TaskHandler,
	users *repository.UserRepo,
	registry session.Registry,
	rdb *redis.Client,
) {
	e.GET("/healthz", handler.Health)

	e.POST("/register", auth.Register)
	e.POST("/token", auth.Token, middleware.LoginRateLimit(cfg.LoginLimit, rdb))
	// Logout validates the bearer itself so that revoking an already
	// revoked token still succeeds (the gate would reject it).
	e.POST("/logout", auth.Logout)

	gate := middleware.JWTAuth(cfg.JWTSecret, users, registry)

	g := e.Group("", gate)
	g.GET("/users/me", auth.Me)

	g.POST("/tasks", tasks.Create)
	g.GET("/tasks", tasks.List)
	g.GET("/tasks/:id", tasks.Get)
	g.PUT("/tasks/:id", tasks.Update)
	g.DELETE("/tasks/:id", tasks.Delete)
}
