package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	AuthSecret          string
	OfferValidity       time.Duration
	RenewalPollInterval time.Duration
	RenewalBatchSize    int
	WorkerPoolSize      int
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress          = ":8080"
	defaultAuthSecret          = "change-me-in-production"
	defaultOfferValidity       = 30 * 24 * time.Hour
	defaultRenewalPollInterval = time.Minute
	defaultRenewalBatchSize    = 32
	defaultWorkerPoolSize      = 4
	defaultShutdownTimeout     = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		AuthSecret:          getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		OfferValidity:       getDuration(lookup, "OFFER_VALIDITY", defaultOfferValidity),
		RenewalPollInterval: getDuration(lookup, "RENEWAL_POLL_INTERVAL", defaultRenewalPollInterval),
		RenewalBatchSize:    getInt(lookup, "RENEWAL_BATCH_SIZE", defaultRenewalBatchSize),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("membercore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		offerValidityStr   = cfg.OfferValidity.String()
		pollIntervalStr    = cfg.RenewalPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing staff tokens")
	fs.StringVar(&offerValidityStr, "offer-validity", offerValidityStr, "Default validity window for purchased offers")
	fs.StringVar(&pollIntervalStr, "renewal-poll-interval", pollIntervalStr, "Interval between membership renewal sweeps")
	fs.IntVar(&cfg.RenewalBatchSize, "renewal-batch", cfg.RenewalBatchSize, "Maximum renewals per sweep")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent renewal workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OfferValidity, err = time.ParseDuration(offerValidityStr); err != nil {
		return nil, fmt.Errorf("invalid offer validity: %w", err)
	}

	if cfg.RenewalPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid renewal poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.OfferValidity <= 0 {
		cfg.OfferValidity = defaultOfferValidity
	}

	if cfg.RenewalPollInterval <= 0 {
		cfg.RenewalPollInterval = defaultRenewalPollInterval
	}

	if cfg.RenewalBatchSize <= 0 {
		cfg.RenewalBatchSize = defaultRenewalBatchSize
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
