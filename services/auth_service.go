package services

import (
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"internbot/config"
)

// AuthService verifies Internshala credentials by driving the real
// login form.
type AuthService struct {
	cfg     config.AppConfig
	session *Session
}

// VerifyResult classifies one login attempt.
type VerifyResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

func NewAuthService(cfg config.AppConfig, session *Session) *AuthService {
	return &AuthService{cfg: cfg, session: session}
}

// VerifyCredentials submits the login form and classifies the outcome
// by the URL the site lands on. Each attempt starts a fresh navigation,
// so retrying is safe; on success the shared session is marked logged
// in. The remote page's own error text is surfaced verbatim when login
// fails.
func (a *AuthService) VerifyCredentials(email, password string) (*VerifyResult, error) {
	result := &VerifyResult{}

	err := a.session.WithPage(func(page playwright.Page) error {
		return a.verifyOnPage(page, email, password, result)
	})
	if err != nil {
		log.Error().Err(err).Msg("login attempt failed")
		return nil, err
	}

	a.session.SetLoggedIn(result.Success)
	return result, nil
}

func (a *AuthService) verifyOnPage(page playwright.Page, email, password string, result *VerifyResult) error {
	if _, err := page.Goto(a.cfg.LoginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(a.cfg.NavigationTimeout.Milliseconds())),
	}); err != nil {
		return err
	}

	if _, err := page.WaitForSelector("#email", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(a.cfg.SelectorTimeout.Milliseconds())),
	}); err != nil {
		return err
	}

	// Typed with a delay to look like keyboard input.
	typeOpts := playwright.LocatorPressSequentiallyOptions{Delay: playwright.Float(100)}
	if err := page.Locator("#email").PressSequentially(email, typeOpts); err != nil {
		return err
	}
	if err := page.Locator("#password").PressSequentially(password, typeOpts); err != nil {
		return err
	}

	if err := page.Locator("#login_submit").Click(); err != nil {
		return err
	}

	// Submitting the form commits a NEW navigation; waiting on the
	// current document's load state would resolve immediately, before
	// the server round trip lands. Wait for the student-area URL
	// instead. A timeout here is a failed verification, not a crash.
	if err := page.WaitForURL("**/student**", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(float64(a.cfg.LoginTimeout.Milliseconds())),
	}); err != nil {
		result.Message = loginErrorText(page)
		return nil
	}

	result.Success = true
	result.Message = "Login successful"
	result.RedirectURL = page.URL()
	return nil
}

// loginErrorText pulls the site's own error message off the page,
// falling back to a generic one.
func loginErrorText(page playwright.Page) string {
	errLocator := page.Locator(".alert-danger, .error-message").First()
	if count, err := errLocator.Count(); err == nil && count > 0 {
		if text, err := errLocator.TextContent(); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return "Invalid credentials"
}
