package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	APIBase   string
	APIKey    string
	InstallID string

	Transport string
	RelayURL  string

	FetchTimeoutSecs    int
	DebounceMs          int
	WatchPollMs         int
	RefreshIntervalSecs int
	AutoRefresh         bool
	FallbackSynthetic   bool

	RedisURL         string
	HTTPPort         int
	HTTPAPIKey       string
	TelegramBotToken string
}

func Load() *Config {
	cfg := &Config{
		APIKey:           os.Getenv("FNG_API_KEY"),
		InstallID:        os.Getenv("INSTALL_ID"),
		RedisURL:         os.Getenv("REDIS_URL"),
		HTTPAPIKey:       os.Getenv("HTTP_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	cfg.APIBase = strings.TrimSpace(os.Getenv("FNG_API_BASE"))
	if cfg.APIBase == "" {
		log.Println("Warning: FNG_API_BASE not set, defaulting to http://localhost:8000")
		cfg.APIBase = "http://localhost:8000"
	}

	if cfg.InstallID == "" {
		log.Println("Warning: INSTALL_ID not set, sentiment requests will be rejected by the API")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, snapshot mirroring disabled")
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(os.Getenv("TRANSPORT")))
	if cfg.Transport == "" {
		cfg.Transport = "direct"
	}
	if cfg.Transport != "direct" && cfg.Transport != "relay" {
		log.Printf("Warning: unsupported TRANSPORT=%q, defaulting to direct", cfg.Transport)
		cfg.Transport = "direct"
	}

	cfg.RelayURL = strings.TrimSpace(os.Getenv("RELAY_URL"))
	if cfg.Transport == "relay" && cfg.RelayURL == "" {
		log.Println("Warning: TRANSPORT=relay but RELAY_URL not set, falling back to direct")
		cfg.Transport = "direct"
	}

	cfg.FetchTimeoutSecs = 10
	if v := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 60 {
			cfg.FetchTimeoutSecs = n
		}
	}

	cfg.DebounceMs = 500
	if v := strings.TrimSpace(os.Getenv("DEBOUNCE_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DebounceMs = n
		}
	}

	cfg.WatchPollMs = 900
	if v := strings.TrimSpace(os.Getenv("WATCH_POLL_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WatchPollMs = n
		}
	}

	cfg.RefreshIntervalSecs = 60
	if v := strings.TrimSpace(os.Getenv("REFRESH_INTERVAL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 5 && n <= 300 {
			cfg.RefreshIntervalSecs = n
		}
	}

	cfg.AutoRefresh = true
	if v := strings.TrimSpace(os.Getenv("AUTO_REFRESH")); v != "" {
		cfg.AutoRefresh = strings.EqualFold(v, "true")
	}

	cfg.FallbackSynthetic = strings.EqualFold(strings.TrimSpace(os.Getenv("FALLBACK_SYNTHETIC")), "true")

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	return cfg
}
