package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/festival-booth-reservation/internal/booking"
	"github.com/iliyamo/festival-booth-reservation/internal/config"
	"github.com/iliyamo/festival-booth-reservation/internal/database"
	"github.com/iliyamo/festival-booth-reservation/internal/handler"
	appmw "github.com/iliyamo/festival-booth-reservation/internal/middleware"
	"github.com/iliyamo/festival-booth-reservation/internal/queue"
	"github.com/iliyamo/festival-booth-reservation/internal/repository"
	"github.com/iliyamo/festival-booth-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Repositories over the shared pool.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	festivalRepo := repository.NewFestivalRepo(db)
	boothRepo := repository.NewBoothRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// The booking engine owns every cross-entity mutation.
	engine := booking.New(db, festivalRepo, boothRepo, reservationRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(engine, festivalRepo, boothRepo, reservationRepo)
	customerHandler := handler.NewCustomerHandler(engine, reservationRepo)
	publicHandler := handler.NewPublicHandler(engine, festivalRepo, boothRepo)

	e := echo.New()

	// Redis backs rate limiting and the public response cache.  A nil
	// client disables both and the API still serves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(appmw.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)
	router.RegisterAdminReservations(e, adminHandler, cfg.JWTSecret)
	router.RegisterCustomer(e, customerHandler, cfg.JWTSecret)

	// Background consumer writes decided reservations to logs/.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
