package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables.
type Config struct {
	Port string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// YouTubeAPIKey enables the quota-metered Data API search backend.
	YouTubeAPIKey string

	// SearchBackend selects the video search implementation: "scrape" or
	// "api". Empty means scrape unless an API key is configured.
	SearchBackend string

	// InsertDelay is the mandatory spacing between destination inserts.
	InsertDelay time.Duration

	// SearchTimeout bounds each per-track video search.
	SearchTimeout time.Duration

	// MaxTrackPages caps how many 50-item pages one fetch follows.
	MaxTrackPages int

	// HTTPTimeout bounds every outbound request to the external services.
	HTTPTimeout time.Duration

	SessionTTL time.Duration
	LogLevel   string
}

// Load reads configuration from a .env file (if present) and environment
// variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRedirectURL:  getEnv("SPOTIFY_REDIRECT_URL", "http://localhost:8080/auth/spotify/callback"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),

		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
		SearchBackend: getEnv("SEARCH_BACKEND", ""),

		InsertDelay:   getDurationMS("INSERT_DELAY_MS", 400),
		SearchTimeout: getDurationMS("SEARCH_TIMEOUT_MS", 5000),
		MaxTrackPages: getInt("MAX_TRACK_PAGES", 10),
		HTTPTimeout:   getDurationMS("HTTP_TIMEOUT_MS", 15000),
		SessionTTL:    getDurationMS("SESSION_TTL_MS", int(24*time.Hour/time.Millisecond)),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.SearchBackend == "" {
		if cfg.YouTubeAPIKey != "" {
			cfg.SearchBackend = "api"
		} else {
			cfg.SearchBackend = "scrape"
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getDurationMS(key string, fallbackMS int) time.Duration {
	return time.Duration(getInt(key, fallbackMS)) * time.Millisecond
}
