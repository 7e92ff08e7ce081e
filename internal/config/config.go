package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  HoldTTL is the
// caller-visible hold duration; the engine is authoritative for
// expiry regardless of any client-side countdown.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	JWTSecret     string        // secret verifying optional holder-identity tokens (empty disables)
	HoldTTL       time.Duration // seat hold time-to-live
	SweepInterval time.Duration // expired-hold sweep period (0 disables the sweeper)
}

// Load reads configuration from the environment, after loading a
// local .env file when one is present.  Required variables are
// enforced by must() and missing values cause the program to exit
// with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // best effort; real deployments set the environment directly

	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		HoldTTL:       envDur("HOLD_TTL", 5*time.Minute),
		SweepInterval: envDur("SWEEP_INTERVAL", time.Minute),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
