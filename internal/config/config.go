package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/farmclock/internal/domain"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string `validate:"oneof=dev staging prod test"`
	Version     string

	ChainRPCURL     string `validate:"required,url"`
	IndexerURL      string `validate:"required,url"`
	WalletBridgeURL string `validate:"required,url"`

	// Account is the wallet actor; empty runs the daemon read-only
	Account       string `validate:"omitempty,max=12"`
	FarmContract  string `validate:"required,max=12"`
	TokenContract string `validate:"required,max=12"`
	NFTContract   string `validate:"required,max=12"`

	TokenSymbol     string `validate:"required,max=7,uppercase"`
	TokenPrecision  int    `validate:"min=0,max=18"`
	WaterEnergyCost int    `validate:"min=0"`

	ClockPollInterval time.Duration `validate:"min=1s"`
	ClockTickInterval time.Duration `validate:"min=10ms"`

	RefreshTries int           `validate:"min=1,max=20"`
	RefreshDelay time.Duration `validate:"min=0s"`

	IndexerCacheTTL  time.Duration `validate:"min=0s"`
	IndexerCacheSize int           `validate:"min=1"`
	RPCRateLimit     float64       `validate:"min=0"`

	JournalDSN string `validate:"required"`

	WorkerCount     int `validate:"min=1,max=64"`
	WorkerQueueSize int `validate:"min=1"`

	ShutdownTimeout time.Duration `validate:"min=0s"`

	// APIKey guards /api/v1 when set
	APIKey         string
	TrustedProxies []string `validate:"dive,ip"`
	HTTPRateLimit  float64  `validate:"min=0"`
	HTTPBurst      int      `validate:"min=0"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvAsInt(EnvPort, DefaultPort),
		LogLevel:    getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:   getEnv(EnvLogFormat, DefaultLogFormat),
		Environment: getEnv(EnvEnvironment, DefaultEnvironment),
		Version:     getEnv(EnvVersion, "dev"),

		ChainRPCURL:     getEnv(EnvChainRPCURL, DefaultChainRPCURL),
		IndexerURL:      getEnv(EnvIndexerURL, DefaultIndexerURL),
		WalletBridgeURL: getEnv(EnvWalletBridgeURL, DefaultWalletBridgeURL),

		Account:       getEnv(EnvAccount, ""),
		FarmContract:  getEnv(EnvFarmContract, DefaultFarmContract),
		TokenContract: getEnv(EnvTokenContract, DefaultTokenContract),
		NFTContract:   getEnv(EnvNFTContract, DefaultNFTContract),

		TokenSymbol:     getEnv(EnvTokenSymbol, domain.DefaultTokenSymbol),
		TokenPrecision:  getEnvAsInt(EnvTokenPrecision, domain.DefaultTokenPrecision),
		WaterEnergyCost: getEnvAsInt(EnvWaterEnergyCost, domain.DefaultWaterEnergyCost),

		ClockPollInterval: getEnvAsDuration(EnvClockPollInterval, DefaultClockPollInterval),
		ClockTickInterval: getEnvAsDuration(EnvClockTickInterval, DefaultClockTickInterval),

		RefreshTries: getEnvAsInt(EnvRefreshTries, DefaultRefreshTries),
		RefreshDelay: getEnvAsDuration(EnvRefreshDelay, DefaultRefreshDelay),

		IndexerCacheTTL:  getEnvAsDuration(EnvIndexerCacheTTL, DefaultIndexerCacheTTL),
		IndexerCacheSize: getEnvAsInt(EnvIndexerCacheSize, DefaultIndexerCacheSize),
		RPCRateLimit:     getEnvAsFloat(EnvRPCRateLimit, DefaultRPCRateLimit),

		JournalDSN: getEnv(EnvJournalDSN, DefaultJournalDSN),

		WorkerCount:     getEnvAsInt(EnvWorkerCount, DefaultWorkerCount),
		WorkerQueueSize: getEnvAsInt(EnvWorkerQueueSize, DefaultWorkerQueueSize),

		ShutdownTimeout: getEnvAsDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		APIKey:         getEnv(EnvAPIKey, ""),
		TrustedProxies: getEnvAsList(EnvTrustedProxies),
		HTTPRateLimit:  getEnvAsFloat(EnvHTTPRateLimit, DefaultHTTPRateLimit),
		HTTPBurst:      getEnvAsInt(EnvHTTPBurst, DefaultHTTPBurst),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadOnly reports whether no wallet account is configured
func (c *Config) ReadOnly() bool {
	return c.Account == ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsFloat parses a float variable, falling back to the default when unset or invalid
func getEnvAsFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsDuration parses a Go duration, falling back to the default when unset or invalid
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
