package services

import (
	"time"

	"internbot/config"
)

// testConfig returns an AppConfig with short timeouts suitable for
// unit tests that never touch a real browser.
func testConfig() config.AppConfig {
	return config.AppConfig{
		Port:              "3001",
		BaseURL:           "https://internshala.com",
		LoginURL:          "https://internshala.com/login",
		Headless:          true,
		ScreenshotDir:     "./screenshots",
		NavigationTimeout: time.Second,
		LoginTimeout:      time.Second,
		SelectorTimeout:   time.Second,
		ProbeTimeout:      100 * time.Millisecond,
		SettleDelay:       10 * time.Millisecond,
	}
}
