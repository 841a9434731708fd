package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-hall-booking/internal/config"
	"github.com/iliyamo/wedding-hall-booking/internal/database"
	"github.com/iliyamo/wedding-hall-booking/internal/handler"
	"github.com/iliyamo/wedding-hall-booking/internal/middleware"
	"github.com/iliyamo/wedding-hall-booking/internal/queue"
	"github.com/iliyamo/wedding-hall-booking/internal/repository"
	"github.com/iliyamo/wedding-hall-booking/internal/router"
	"github.com/iliyamo/wedding-hall-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis backs the rate limiter and the response cache.  A nil client
	// (Redis not configured) disables both without failing startup.
	rdb := config.NewRedisClient()

	userRepo := &repository.UserRepo{DB: db}
	tokenRepo := &repository.TokenRepo{DB: db}
	hallRepo := repository.NewHallRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	notifier := service.NewNotifier(userRepo, notificationRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	hallHandler := handler.NewHallHandler(hallRepo, bookingRepo)
	bookingHandler := handler.NewBookingHandler(hallRepo, bookingRepo, notifier)
	paymentHandler := handler.NewPaymentHandler(hallRepo, bookingRepo, paymentRepo, notifier)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(userRepo, bookingRepo, paymentRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, hallHandler, cache)
	router.RegisterHallAdmin(e, hallHandler, cfg.JWTSecret)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)
	router.RegisterPayments(e, paymentHandler, cfg.JWTSecret)
	router.RegisterNotifications(e, notificationHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The consumer drains booking.events into an audit log.  It reconnects
	// on broker failure and never takes the API down with it.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
