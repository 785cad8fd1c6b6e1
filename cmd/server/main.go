package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/config"
	"github.com/todosalud/clinic-appointments/internal/database"
	"github.com/todosalud/clinic-appointments/internal/handler"
	"github.com/todosalud/clinic-appointments/internal/middleware"
	"github.com/todosalud/clinic-appointments/internal/queue"
	"github.com/todosalud/clinic-appointments/internal/repository"
	"github.com/todosalud/clinic-appointments/internal/router"
	"github.com/todosalud/clinic-appointments/internal/session"
	"github.com/todosalud/clinic-appointments/internal/view"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil when Redis is unreachable; sessions fall back to signed cookies
	// and the login rate limiter becomes a pass-through
	rdb := config.NewRedisClient()

	sessions := session.NewStore(rdb, cfg.SessionSecret, cfg.SessionTTL)
	users := repository.NewUserRepo(db)
	appts := repository.NewAppointmentRepo(db)

	e := echo.New()
	e.HideBanner = true

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = renderer

	e.Static("/static", "web/static")
	e.Use(middleware.LoadSession(sessions, cfg.CookieName))

	h := handler.New(cfg, users, appts, sessions)
	router.Register(e, h, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// background notification consumer; reconnects on its own
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("appointment-consumer: stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
