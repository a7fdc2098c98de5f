package hostapi

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the debug host's own tunables, loaded from the process
// environment with a `.env` file layered underneath. Grounded on the
// teacher's `cmd/server/main.go` godotenv.Load fallback chain and
// `internal/config.Load`'s single-source-of-truth struct, trimmed to the
// handful of knobs this host actually needs (no video/audio/stream config,
// since rendering is a spec Non-goal).
type Config struct {
	Addr     string
	TickRate time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	DisableDebugServer bool
}

// DefaultConfig returns production-shaped defaults, the same values
// hostapi.NewServer and DefaultRateLimitConfig already assume.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		TickRate:       time.Second / 30,
		RateLimitRPS:   DefaultRateLimitConfig.RequestsPerSecond,
		RateLimitBurst: DefaultRateLimitConfig.Burst,
	}
}

// LoadConfig loads `.env` (if present) then overlays Config fields from
// the environment, mirroring the teacher's `godotenv.Load("../.env")` /
// `godotenv.Load(".env")` fallback in `cmd/server/main.go`.
func LoadConfig() Config {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("hostapi: no .env file found, using environment variables only")
		}
	}

	cfg := DefaultConfig()
	if v := os.Getenv("MATCHD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("MATCHD_TICK_RATE_HZ"); v != "" {
		if hz, err := strconv.Atoi(v); err == nil && hz > 0 {
			cfg.TickRate = time.Second / time.Duration(hz)
		}
	}
	if v := os.Getenv("MATCHD_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("MATCHD_RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitBurst = n
		}
	}
	cfg.DisableDebugServer = os.Getenv("MATCHD_DISABLE_DEBUG_SERVER") == "true"
	return cfg
}

// RateLimitConfig returns the rate-limit settings this config carries, for
// wiring into NewIPRateLimiter.
func (c Config) RateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: c.RateLimitRPS,
		Burst:             c.RateLimitBurst,
		CleanupInterval:   DefaultRateLimitConfig.CleanupInterval,
	}
}
