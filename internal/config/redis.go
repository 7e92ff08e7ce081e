package config

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the shared Redis client used for rate
// limiting the booking endpoints and caching the show listing.  Redis
// is strictly auxiliary: when the server cannot be reached at startup
// the function returns nil and both features are disabled, while the
// reservation core keeps working against the database alone.
//
// Configuration:
//
//	REDIS_ADDR     host:port (default localhost:6379)
//	REDIS_HOST and REDIS_PORT take precedence over REDIS_ADDR
//	REDIS_PASSWORD optional password
//	REDIS_DB       database number (default 0)
//	REDIS_TLS      enable TLS when truthy
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}

	var tlsConf *tls.Config
	if envBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  envStr("REDIS_PASSWORD", ""),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: ping %s failed: %v", addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
