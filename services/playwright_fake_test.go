package services

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// fakePage is a scripted stand-in for a browser page. Selectors listed
// in present exist on the page; everything else times out or counts
// zero. Only the methods the services actually call are implemented;
// anything unscripted panics through the embedded nil interface.
type fakePage struct {
	playwright.Page

	title   string
	url     string
	present map[string]bool
	texts   map[string]string
	attrs   map[string]string
	cards   []playwright.Locator

	// nextURL is where the pending navigation lands when WaitForURL
	// succeeds; navErr makes it time out instead.
	nextURL string
	navErr  error

	gotoURLs    []string
	clicked     []string
	typed       map[string]string
	filled      []string
	screenshots int
}

func newFakePage() *fakePage {
	return &fakePage{
		present: map[string]bool{},
		texts:   map[string]string{},
		attrs:   map[string]string{},
		typed:   map[string]string{},
	}
}

// has honors comma-separated selector lists the way the browser does:
// the list matches when any alternative matches.
func (p *fakePage) has(selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		if p.present[strings.TrimSpace(part)] {
			return true
		}
	}
	return false
}

func (p *fakePage) text(selector string) string {
	for _, part := range strings.Split(selector, ",") {
		if t, ok := p.texts[strings.TrimSpace(part)]; ok {
			return t
		}
	}
	return ""
}

func (p *fakePage) attr(selector string) string {
	for _, part := range strings.Split(selector, ",") {
		if a, ok := p.attrs[strings.TrimSpace(part)]; ok {
			return a
		}
	}
	return ""
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.gotoURLs = append(p.gotoURLs, url)
	p.url = url
	return nil, nil
}

func (p *fakePage) Title() (string, error) { return p.title, nil }

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) WaitForSelector(selector string, options ...playwright.PageWaitForSelectorOptions) (playwright.ElementHandle, error) {
	if p.has(selector) {
		return nil, nil
	}
	return nil, fmt.Errorf("timed out waiting for %q", selector)
}

func (p *fakePage) WaitForURL(url interface{}, options ...playwright.PageWaitForURLOptions) error {
	if p.navErr != nil {
		return p.navErr
	}
	if p.nextURL != "" {
		p.url = p.nextURL
	}
	return nil
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{page: p, selector: selector}
}

func (p *fakePage) Evaluate(expression string, args ...interface{}) (interface{}, error) {
	if len(args) == 1 {
		switch arg := args[0].(type) {
		case map[string]interface{}:
			text, _ := arg["text"].(string)
			p.filled = append(p.filled, text)
			return true, nil
		case string:
			p.clicked = append(p.clicked, arg)
			return nil, nil
		}
	}
	return nil, nil
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.screenshots++
	return []byte("png"), nil
}

// fakeLocator resolves against its page's scripted selector maps. A
// listing card is modeled as a fakeLocator over its own fakePage so
// per-card fields stay scoped.
type fakeLocator struct {
	embeddedLocator

	page     *fakePage
	selector string
}

// embeddedLocator renames the embedded playwright.Locator so its field
// name doesn't collide with fakeLocator's Locator method.
type embeddedLocator interface{ playwright.Locator }

func (l *fakeLocator) First() playwright.Locator { return l }

func (l *fakeLocator) Locator(selector interface{}, options ...playwright.LocatorLocatorOptions) playwright.Locator {
	sel, _ := selector.(string)
	return &fakeLocator{page: l.page, selector: sel}
}

func (l *fakeLocator) Count() (int, error) {
	if l.page.has(l.selector) {
		return 1, nil
	}
	return 0, nil
}

func (l *fakeLocator) All() ([]playwright.Locator, error) {
	return l.page.cards, nil
}

func (l *fakeLocator) TextContent(options ...playwright.LocatorTextContentOptions) (string, error) {
	return l.page.text(l.selector), nil
}

func (l *fakeLocator) GetAttribute(name string, options ...playwright.LocatorGetAttributeOptions) (string, error) {
	return l.page.attr(l.selector), nil
}

func (l *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	l.page.clicked = append(l.page.clicked, l.selector)
	return nil
}

func (l *fakeLocator) PressSequentially(text string, options ...playwright.LocatorPressSequentiallyOptions) error {
	l.page.typed[l.selector] = text
	return nil
}

// listingCard builds a card locator whose fields resolve from the given
// selector -> text map.
func listingCard(fields map[string]string) playwright.Locator {
	card := newFakePage()
	for selector, text := range fields {
		card.present[selector] = true
		card.texts[selector] = text
	}
	return &fakeLocator{page: card}
}
