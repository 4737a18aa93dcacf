package config

import (
	"os"
	"strconv"
	"time"
)

// AppConfig holds everything read from the environment at startup.
type AppConfig struct {
	Port        string
	Environment string

	// Internshala endpoints
	BaseURL  string
	LoginURL string

	// Browser
	Headless      bool
	ScreenshotDir string

	// Timeouts for navigation-driving operations
	NavigationTimeout time.Duration
	LoginTimeout      time.Duration
	SelectorTimeout   time.Duration
	ProbeTimeout      time.Duration
	SettleDelay       time.Duration

	// Side features
	GeminiAPIKey string
	HistoryDB    string
}

func GetAppConfig() AppConfig {
	headless := getEnv("HEADLESS", "true") != "false"

	return AppConfig{
		Port:              getEnv("PORT", "3001"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		BaseURL:           getEnv("INTERNSHALA_BASE_URL", "https://internshala.com"),
		LoginURL:          getEnv("INTERNSHALA_LOGIN_URL", "https://internshala.com/login"),
		Headless:          headless,
		ScreenshotDir:     getEnv("SCREENSHOT_DIR", "./screenshots"),
		NavigationTimeout: getDurationMs("NAVIGATION_TIMEOUT_MS", 60000),
		LoginTimeout:      getDurationMs("LOGIN_TIMEOUT_MS", 15000),
		SelectorTimeout:   getDurationMs("SELECTOR_TIMEOUT_MS", 10000),
		ProbeTimeout:      getDurationMs("PROBE_TIMEOUT_MS", 2000),
		SettleDelay:       getDurationMs("SETTLE_DELAY_MS", 3000),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		HistoryDB:         getEnv("HISTORY_DB", "./internbot.db"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationMs(key string, defaultMs int) time.Duration {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultMs)))
	if err != nil || ms <= 0 {
		ms = defaultMs
	}
	return time.Duration(ms) * time.Millisecond
}
