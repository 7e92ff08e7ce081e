package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/config"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/database"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/engine"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/handler"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/queue"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/repository"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	reservationRepo := repository.NewReservationRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showRepo := repository.NewShowRepo(db)

	eng := engine.New(reservationRepo, seatRepo)

	// Optional sweep of expired holds; correctness never depends on it.
	if cfg.SweepInterval > 0 {
		go eng.RunSweeper(context.Background(), cfg.SweepInterval)
	}

	// Background consumer appending confirmed bookings to the audit log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response caching disabled")
	}

	booking := handler.NewBookingHandler(eng, showRepo, seatRepo, cfg.HoldTTL)
	browse := handler.NewBrowseHandler(eng, showRepo)

	e := echo.New()
	router.Register(e, booking, browse, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
