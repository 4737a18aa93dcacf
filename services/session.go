package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"internbot/config"
)

// ErrNotLoggedIn is returned by session-dependent operations when no
// verified login is present.
var ErrNotLoggedIn = errors.New("not logged in")

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Session owns the single browser process and the single page every
// operation shares. The remote site keeps login state in that page, so
// there is never more than one of either; all navigation-driving work
// must go through WithPage, which serializes access.
type Session struct {
	mu       sync.Mutex
	cfg      config.AppConfig
	pw       *playwright.Playwright
	browser  playwright.Browser
	page     playwright.Page
	loggedIn bool
}

func NewSession(cfg config.AppConfig) *Session {
	return &Session{cfg: cfg}
}

// ensurePage launches the browser and opens the shared page on first
// use. Callers must hold s.mu.
func (s *Session) ensurePage() (playwright.Page, error) {
	if s.page != nil {
		return s.page, nil
	}

	if s.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		s.pw = pw
	}

	if s.browser == nil {
		browser, err := s.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(s.cfg.Headless),
			Args: []string{
				"--no-sandbox",
				"--disable-setuid-sandbox",
				"--disable-blink-features=AutomationControlled",
			},
		})
		if err != nil {
			return nil, fmt.Errorf("could not launch browser: %w", err)
		}
		s.browser = browser
	}

	context, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:  &playwright.Size{Width: 1280, Height: 800},
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not open page: %w", err)
	}

	log.Info().Msg("browser session started")
	s.page = page
	return s.page, nil
}

// WithPage runs fn with exclusive use of the shared page, launching the
// browser if needed. Concurrent navigations on one page corrupt each
// other, so every login, search and apply call funnels through here.
func (s *Session) WithPage(fn func(page playwright.Page) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.ensurePage()
	if err != nil {
		return err
	}
	return fn(page)
}

// SetLoggedIn records the outcome of credential verification.
func (s *Session) SetLoggedIn(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = v
}

// IsLoggedIn reports whether the shared page holds a verified login.
func (s *Session) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// BrowserActive reports whether a browser process is running.
func (s *Session) BrowserActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser != nil
}

// Close terminates the browser process and clears all handles. Safe to
// call when no session exists.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing browser")
		}
		s.browser = nil
		s.page = nil
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			log.Warn().Err(err).Msg("error stopping playwright")
		}
		s.pw = nil
	}
	s.loggedIn = false
	return nil
}
