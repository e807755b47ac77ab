package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config captures application level settings loaded from the environment.
type Config struct {
	HTTPPort     string
	DatabaseURL  string
	DatabaseName string
	Fees         FeeConfig
	Price        PriceConfig
}

// FeeConfig is the fee schedule applied to reward credits.
type FeeConfig struct {
	MinBrokerageInr decimal.Decimal
	BrokerageRate   decimal.Decimal
	STTRate         decimal.Decimal
	GSTRate         decimal.Decimal
}

// PriceConfig controls price-series generation and the fallback used when a
// symbol has no recorded price yet. The fallback silently shapes computed
// values, so it is an explicit policy knob rather than a hidden constant.
type PriceConfig struct {
	JobInterval      time.Duration
	FallbackPriceInr decimal.Decimal
	RandomFloorPrice float64
	RandomCeilPrice  float64
	SeedSymbols      []string
}

// Load parses environment variables into Config and falls back to sensible
// defaults so the server can boot without additional flags.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTPPort:     getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: getEnv("DATABASE_NAME", "stocky"),
		Fees: FeeConfig{
			MinBrokerageInr: getDecimal("FEE_MIN_BROKERAGE_INR", "5"),
			BrokerageRate:   getDecimal("FEE_BROKERAGE_RATE", "0.002"),
			STTRate:         getDecimal("FEE_STT_RATE", "0.001"),
			GSTRate:         getDecimal("FEE_GST_RATE", "0.18"),
		},
		Price: PriceConfig{
			JobInterval:      getDuration("PRICE_JOB_INTERVAL", time.Hour),
			FallbackPriceInr: getDecimal("PRICE_FALLBACK_INR", "1000.00"),
			RandomFloorPrice: getFloat("PRICE_RANDOM_FLOOR", 1000.0),
			RandomCeilPrice:  getFloat("PRICE_RANDOM_CEIL", 3500.0),
			SeedSymbols:      []string{"RELIANCE", "TCS", "INFY"},
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	if cfg.Price.FallbackPriceInr.Sign() <= 0 {
		return nil, errors.New("PRICE_FALLBACK_INR must be positive")
	}

	if cfg.Price.RandomFloorPrice <= 0 || cfg.Price.RandomCeilPrice <= cfg.Price.RandomFloorPrice {
		return nil, errors.New("invalid random price bounds configured")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDecimal(key, fallback string) decimal.Decimal {
	val := os.Getenv(key)
	if val == "" {
		val = fallback
	}
	parsed, err := decimal.NewFromString(val)
	if err != nil {
		parsed, _ = decimal.NewFromString(fallback)
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
