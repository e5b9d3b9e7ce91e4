package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/knockout-fixture/internal/utils"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxParticipants int
	MaxBodyBytes    int64
	LogLevel        slog.Level
	LogFormat       string
	Environment     string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, applying defaults for unset keys.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var cfg Config
	var err error

	if cfg.Port, err = intInRange("PORT", get("PORT", "8080"), 1, 65535); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = intInRange("RATE_LIMIT_BURST", get("RATE_LIMIT_BURST", "20"), 1, 1_000_000); err != nil {
		return Config{}, err
	}
	if cfg.MaxParticipants, err = intInRange("MAX_PARTICIPANTS", get("MAX_PARTICIPANTS", "128"), 2, 1024); err != nil {
		return Config{}, err
	}

	rps, err := strconv.ParseFloat(get("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS: must be a positive number, got %q", get("RATE_LIMIT_RPS", "10"))
	}
	cfg.RateLimitRPS = rps

	bodyBytes, err := strconv.ParseInt(get("MAX_BODY_BYTES", "10485760"), 10, 64)
	if err != nil || bodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: must be a positive integer, got %q", get("MAX_BODY_BYTES", "10485760"))
	}
	cfg.MaxBodyBytes = bodyBytes

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = strings.ToLower(get("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("LOG_FORMAT: must be text or json, got %q", cfg.LogFormat)
	}

	cfg.AllowedOrigins = utils.SplitList(get("ALLOWED_ORIGINS", "*"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	cfg.Environment = get("APP_ENV", "development")

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func NewLogger(w io.Writer, c Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func intInRange(key, raw string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: not an integer: %q", key, raw)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s: %d out of range [%d, %d]", key, v, lo, hi)
	}
	return v, nil
}
