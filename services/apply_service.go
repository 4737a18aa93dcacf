package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"internbot/config"
	"internbot/models"
)

// Apply outcome statuses.
const (
	ApplyStatusApplied        = "applied"
	ApplyStatusAlreadyApplied = "already_applied"
	ApplyStatusFailed         = "failed"
	ApplyStatusButtonNotFound = "button_not_found"
)

// Selector fallback chains for the application flow. Ordered: the first
// selector that appears within its probe window wins.
var (
	applyButtonSelectors = []string{
		"#apply_now_button",
		".btn.btn-primary.campaign",
		"button.view_detail_button",
		".apply_now_button",
		"#easy_apply_button",
	}
	submitButtonSelectors = []string{
		"#submit",
		"button[type='submit']",
		".submit_button",
		"#apply_button",
	}
)

const (
	continueButtonSelector = "#continue_button, .continue_button"
	alreadyAppliedSelector = ".already_applied, .btn-disabled, .applied_message"
	successMarkerSelector  = ".success-message, .alert-success, .applied_success"
)

// fillAnswerScript sets the value of the index-th matching answer field
// inside the page, trying an ordered set of strategies, and dispatches
// input/change events so the site's framework bindings see the value.
const fillAnswerScript = `({ index, text }) => {
	const selectors = [
		'textarea[name="answer_' + index + '"]',
		'#cover_letter_holder textarea',
		'.form-control',
		'textarea'
	];
	for (const selector of selectors) {
		const elements = document.querySelectorAll(selector);
		let el = null;
		if (elements.length > index) {
			el = elements[index];
		} else if (elements.length === 1 && index === 0) {
			el = elements[0];
		}
		if (el) {
			el.value = text;
			el.dispatchEvent(new Event('input', { bubbles: true }));
			el.dispatchEvent(new Event('change', { bubbles: true }));
			return true;
		}
	}
	return false;
}`

const clickScript = `(sel) => {
	const el = document.querySelector(sel);
	if (el) el.click();
}`

// ApplyService drives the multi-step application submission protocol on
// a listing's detail page.
type ApplyService struct {
	cfg         config.AppConfig
	session     *Session
	screenshots *ScreenshotService
}

// ApplyResult classifies one submission attempt. A result with
// Success=true and the "verification recommended" message is an
// optimistic completion: no failure was detected but no success marker
// was seen either.
type ApplyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func NewApplyService(cfg config.AppConfig, session *Session, screenshots *ScreenshotService) *ApplyService {
	return &ApplyService{cfg: cfg, session: session, screenshots: screenshots}
}

// Apply navigates to a listing and walks the submission protocol:
// terminal-state checks, apply control, optional continue step, answer
// filling, submit, outcome detection. Requires a logged-in session.
func (a *ApplyService) Apply(internshipURL string, answers []models.AnswerTemplate) (*ApplyResult, error) {
	if !a.session.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	result := &ApplyResult{}
	err := a.session.WithPage(func(page playwright.Page) error {
		a.applyOnPage(page, internshipURL, answers, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *ApplyService) applyOnPage(page playwright.Page, internshipURL string, answers []models.AnswerTemplate, result *ApplyResult) {
	defer func() {
		if r := recover(); r != nil {
			a.screenshots.Capture(page, "error_exception")
			result.Success = false
			result.Status = ApplyStatusFailed
			result.Message = fmt.Sprintf("Application failed: %v", r)
		}
	}()

	// Lenient navigation: domcontentloaded, because some detail pages
	// never reach network idle. A timeout here does not abort the flow;
	// the page may still be usable.
	if _, err := page.Goto(internshipURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(a.cfg.NavigationTimeout.Milliseconds())),
	}); err != nil {
		log.Warn().Err(err).Str("url", internshipURL).Msg("navigation error, continuing anyway")
	}

	a.settle()

	title, _ := page.Title()
	if strings.Contains(title, "404") || strings.Contains(title, "Not Found") {
		result.Success = false
		result.Status = ApplyStatusFailed
		result.Message = "Internship page not found (404)"
		return
	}

	if count, err := page.Locator(alreadyAppliedSelector).Count(); err == nil && count > 0 {
		result.Success = false
		result.Status = ApplyStatusAlreadyApplied
		result.Message = "Already applied to this internship"
		return
	}

	applySelector := a.probeSelectors(page, applyButtonSelectors)
	if applySelector == "" {
		path := a.screenshots.Capture(page, "error_no_button")
		result.Success = false
		result.Status = ApplyStatusButtonNotFound
		result.Message = "Apply button not found. Screenshot saved."
		if path != "" {
			log.Info().Str("screenshot", path).Msg("saved diagnostic screenshot")
		}
		return
	}

	a.clickWithFallback(page, applySelector)
	a.settle()

	// Some listings interpose a continue step before the form; its
	// absence is not an error.
	if a.probeSelector(page, continueButtonSelector) {
		a.clickWithFallback(page, continueButtonSelector)
		time.Sleep(time.Second)
	}

	if len(answers) > 0 {
		a.fillAnswers(page, answers)
	}

	submitSelector := a.probeSelectors(page, submitButtonSelectors)
	if submitSelector != "" {
		a.clickWithFallback(page, submitSelector)
		a.settle()

		markerCount, err := page.Locator(successMarkerSelector).Count()
		confirmed := err == nil && markerCount > 0
		if confirmed || strings.Contains(page.URL(), "/application/success") {
			result.Success = true
			result.Status = ApplyStatusApplied
			result.Message = "Application submitted successfully"
			return
		}
	}

	// Optimistic default: no failure was detected, so report the
	// application as completed but flag that it was not verified.
	result.Success = true
	result.Status = ApplyStatusApplied
	result.Message = "Application process completed (verification recommended)"
}

// probeSelectors tries each candidate with a short individual wait and
// returns the first that appears, or "".
func (a *ApplyService) probeSelectors(page playwright.Page, selectors []string) string {
	for _, selector := range selectors {
		if a.probeSelector(page, selector) {
			log.Debug().Str("selector", selector).Msg("selector matched")
			return selector
		}
	}
	return ""
}

func (a *ApplyService) probeSelector(page playwright.Page, selector string) bool {
	_, err := page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(a.cfg.ProbeTimeout.Milliseconds())),
	})
	return err == nil
}

// clickWithFallback clicks a control directly, falling back to an
// in-page click when the element is not interactable through the
// standard path (covered by an overlay, off-screen).
func (a *ApplyService) clickWithFallback(page playwright.Page, selector string) {
	err := page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(a.cfg.ProbeTimeout.Milliseconds())),
	})
	if err == nil {
		return
	}
	log.Debug().Err(err).Str("selector", selector).Msg("direct click failed, trying JS click")
	if _, err := page.Evaluate(clickScript, selector); err != nil {
		log.Warn().Err(err).Str("selector", selector).Msg("JS click failed")
	}
}

// fillAnswers fills each answer into the matching form field in order.
// Filling is best-effort; an unmatched field is logged and skipped.
func (a *ApplyService) fillAnswers(page playwright.Page, answers []models.AnswerTemplate) {
	time.Sleep(time.Second)

	for i, answer := range answers {
		if answer.Answer == "" {
			continue
		}
		filled, err := page.Evaluate(fillAnswerScript, map[string]interface{}{
			"index": i,
			"text":  answer.Answer,
		})
		if err != nil {
			log.Warn().Err(err).Int("answer", i+1).Msg("could not fill answer")
			continue
		}
		if ok, _ := filled.(bool); ok {
			log.Info().Int("answer", i+1).Msg("filled answer field")
		} else {
			log.Warn().Int("answer", i+1).Msg("no field matched for answer")
		}
	}

	time.Sleep(500 * time.Millisecond)
}

func (a *ApplyService) settle() {
	time.Sleep(a.cfg.SettleDelay)
}
