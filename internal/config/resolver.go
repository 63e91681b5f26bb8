package config

import (
	"os"
	"strconv"
	"time"
)

// Resolver holds the tunables for remote source resolution.
type Resolver struct {
	FetchTimeout time.Duration
	MaxRetries   uint64
}

func ResolverFromEnv() Resolver {
	cfg := Resolver{
		FetchTimeout: 10 * time.Second,
		MaxRetries:   2,
	}

	if raw := os.Getenv("SOURCE_FETCH_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.FetchTimeout = d
		}
	}

	if raw := os.Getenv("SOURCE_FETCH_RETRIES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			cfg.MaxRetries = uint64(n)
		}
	}

	return cfg
}
