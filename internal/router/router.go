// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/config"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/handler"
	"github.com/fromsaurav/High-Volume-Ticketing-Engine/internal/middleware"
)

// Register attaches every route of the service to the provided Echo
// instance.  The booking endpoints share the holder-identity
// middleware and the Redis token-bucket rate limiter; the show
// listing additionally goes through the response cache.  The seat map
// is deliberately uncached so effective status is recomputed on every
// read.
func Register(e *echo.Echo, booking *handler.BookingHandler, browse *handler.BrowseHandler, cfg config.Config, rdb *redis.Client) {
	// Liveness probe for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.Use(middleware.HolderIdentity(cfg.JWTSecret))
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Public browse endpoints.
	api.GET("/shows", browse.ListShows, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	api.GET("/hall-layout/:show_id", browse.HallLayout)

	// Reservation protocol.
	api.POST("/lock-seat", booking.LockSeat)
	api.POST("/confirm-seat", booking.ConfirmSeat)
	api.POST("/release-lock", booking.ReleaseLock)
}
