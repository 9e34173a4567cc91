package main // Entry point package

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/task-tracker/internal/config"
	"github.com/iliyamo/task-tracker/internal/database"
	"github.com/iliyamo/task-tracker/internal/handler"
	"github.com/iliyamo/task-tracker/internal/queue"
	"github.com/iliyamo/task-tracker/internal/repository"
	"github.com/iliyamo/task-tracker/internal/router"
	"github.com/iliyamo/task-tracker/internal/session"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: without it revocation stays process-local and the
	// login rate limiter is disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; using process-local revocation registry")
	}
	registry := session.New(rdb)

	users := repository.NewUserRepo(db)
	tasks := repository.NewTaskRepo(db)

	// Background consumer turning activity events into logs/activity.log.
	go queue.StartActivityConsumer()

	e := echo.New()
	e.Use(echomw.RequestID())

	authHandler := handler.NewAuthHandler(cfg, users, registry)
	taskHandler := handler.NewTaskHandler(tasks)
	router.Register(e, cfg, authHandler, taskHandler, users, registry, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
