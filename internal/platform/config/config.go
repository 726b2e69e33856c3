package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr         string
	SweepEvery   time.Duration
	ReadHeaders  time.Duration
	ShutdownWait time.Duration
}

// Database captures the relational store configuration.
type Database struct {
	URL string
}

// Redis captures the optional rate-limiter backend configuration.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Provider captures the upstream identity provider credentials.
type Provider struct {
	ClientID     string
	ClientSecret string
	PublicHost   string
	Timeout      time.Duration
}

// RateLimit captures the per-IP request limiter settings.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Config is everything main needs to assemble the service.
type Config struct {
	Server     Server
	Database   Database
	Redis      Redis
	Provider   Provider
	RateLimit  RateLimit
	SessionTTL time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// Provider credentials and the database URL have no usable defaults and are
// validated here rather than failing at first request.
func FromEnv() (Config, error) {
	cfg := Config{
		Server: Server{
			Addr:         envOr("AUTHLANDER_ADDR", ":8080"),
			SweepEvery:   envDuration("AUTHLANDER_SWEEP_EVERY", 0),
			ReadHeaders:  5 * time.Second,
			ShutdownWait: 10 * time.Second,
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Provider: Provider{
			ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
			PublicHost:   envOr("PUBLIC_HOST", "http://localhost:8080"),
			Timeout:      envDuration("OAUTH_PROVIDER_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimit{
			Requests: envInt("AUTHLANDER_RATE_LIMIT", 60),
			Window:   envDuration("AUTHLANDER_RATE_WINDOW", time.Minute),
		},
		SessionTTL: envDuration("AUTHLANDER_SESSION_TTL", 0),
	}

	if cfg.Database.URL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Provider.ClientID == "" || cfg.Provider.ClientSecret == "" {
		return Config{}, fmt.Errorf("OAUTH_CLIENT_ID and OAUTH_CLIENT_SECRET are required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
