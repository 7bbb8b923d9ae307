package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth; empty disables bearer auth.
	APIKey string

	// Phrase tables, one file per report type.
	TransplantPhrases string
	NativePhrases     string
	WatchPhrases      bool
	WatchDebounce     time.Duration

	// Sessions
	SessionTTL    time.Duration
	MaxSessions   int
	RegenDebounce time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Stats window for generation latency.
	StatsWindow time.Duration

	LogLevel slog.Level

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("API_KEY"),

		TransplantPhrases: envOr("TRANSPLANT_PHRASES", "data/phrases_transplant.json"),
		NativePhrases:     os.Getenv("NATIVE_PHRASES"),
		WatchPhrases:      envBool("WATCH_PHRASES", false),
		WatchDebounce:     envDuration("WATCH_DEBOUNCE", 500*time.Millisecond),

		SessionTTL:    envDuration("SESSION_TTL", 2*time.Hour),
		MaxSessions:   envInt("MAX_SESSIONS", 1000),
		RegenDebounce: envDuration("REGEN_DEBOUNCE", 300*time.Millisecond),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.RegenDebounce <= 0 {
		cfg.RegenDebounce = 300 * time.Millisecond
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 500 * time.Millisecond
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.TransplantPhrases == "" {
		return fmt.Errorf("TRANSPLANT_PHRASES is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

// PhraseFiles maps each configured phrase table path to its report type name.
func (c Config) PhraseFiles() map[string]string {
	files := map[string]string{c.TransplantPhrases: "transplant"}
	if c.NativePhrases != "" {
		files[c.NativePhrases] = "native"
	}
	return files
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return lvl
}
