package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	"internbot/config"
	"internbot/models"
)

// maxListings caps how many result cards are extracted per search.
const maxListings = 20

// listingContainerSelector matches the result cards across the markup
// variants the site has shipped.
const listingContainerSelector = ".internship_meta, .individual_internship"

// fieldSelectors are ordered fallback chains per logical field; the
// first selector that matches inside a card wins.
var (
	titleSelectors    = []string{".job-internship-name", ".profile h3 a", "h4.heading_4_5 a"}
	companySelectors  = []string{".company-name", ".company h4 a", ".link_display_like_text"}
	locationSelectors = []string{".location_link", ".locations span a", "#location_names a"}
	stipendSelectors  = []string{".stipend", ".item_body"}
	postedSelectors   = []string{".status-success", ".status_container span"}
)

const detailLinkSelector = `a[href*="/internship/detail/"]`

var stipendPattern = regexp.MustCompile(`₹?\s*(\d+(?:,\d+)*)`)

// SearchService builds search URLs and extracts structured listings
// from the rendered results page.
type SearchService struct {
	cfg     config.AppConfig
	session *Session
}

// SearchResult is the outcome of one search pass. Count is always
// len(Internships); zero results with Success=true means the page
// rendered but nothing survived extraction and filtering.
type SearchResult struct {
	Success     bool                 `json:"success"`
	Internships []*models.Internship `json:"internships"`
	Count       int                  `json:"count"`
	Message     string               `json:"message,omitempty"`
	Skipped     []*models.Internship `json:"-"`
}

func NewSearchService(cfg config.AppConfig, session *Session) *SearchService {
	return &SearchService{cfg: cfg, session: session}
}

// BuildSearchURL constructs the listings URL from the first keyword
// token. Remote and location filters are mutually exclusive; remote
// wins.
func BuildSearchURL(baseURL string, filters models.SearchFilters) string {
	searchURL := baseURL + "/internships/"

	if filters.Keywords != "" {
		first := strings.Split(filters.Keywords, ",")[0]
		token := strings.ToLower(strings.TrimSpace(first))
		token = strings.Join(strings.Fields(token), "-")
		if token != "" {
			searchURL += token + "-"
		}
	}
	searchURL += "internship"

	params := url.Values{}
	if filters.RemoteOnly {
		params.Set("type", "virtual")
	} else if filters.Location != "" {
		params.Set("location", filters.Location)
	}
	if encoded := params.Encode(); encoded != "" {
		searchURL += "?" + encoded
	}
	return searchURL
}

// ParseStipend extracts a numeric monthly amount from a stipend display
// string. The bool is false when no amount is present ("Unpaid",
// "Not disclosed"), which is distinct from zero.
func ParseStipend(text string) (int, bool) {
	match := stipendPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	amount, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return amount, true
}

// KeepListing applies the minimum-stipend filter. Listings without a
// parseable amount are always kept: the text may legitimately say
// "Unpaid" or "Not disclosed" and excluding those silently would hide
// listings the operator asked for.
func KeepListing(listing *models.Internship, minStipend int) bool {
	if minStipend <= 0 || !listing.HasStipend {
		return true
	}
	return listing.StipendAmount >= minStipend
}

// Search loads the results page for the given filters and extracts up
// to maxListings structured records. Requires a logged-in session.
func (s *SearchService) Search(filters models.SearchFilters) (*SearchResult, error) {
	if !s.session.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}

	searchURL := BuildSearchURL(s.cfg.BaseURL, filters)
	log.Info().Str("url", searchURL).Msg("searching internships")

	result := &SearchResult{}
	err := s.session.WithPage(func(page playwright.Page) error {
		return s.searchOnPage(page, searchURL, filters.MinStipend, result)
	})
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		result.Success = false
		result.Message = err.Error()
		return result, nil
	}

	result.Success = true
	result.Count = len(result.Internships)
	log.Info().Int("count", result.Count).Int("skipped", len(result.Skipped)).Msg("search complete")
	return result, nil
}

// searchOnPage loads the results page and extracts records from the
// rendered cards. Internships always comes back as an array, even when
// nothing survives extraction and filtering.
func (s *SearchService) searchOnPage(page playwright.Page, searchURL string, minStipend int, result *SearchResult) error {
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(s.cfg.NavigationTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("could not load search results: %w", err)
	}

	if _, err := page.WaitForSelector(listingContainerSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(s.cfg.SelectorTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("no listing cards appeared: %w", err)
	}

	cards, err := page.Locator(listingContainerSelector).All()
	if err != nil {
		return err
	}

	result.Internships = []*models.Internship{}
	for i, card := range cards {
		if i >= maxListings {
			break
		}
		listing := s.extractListing(card)
		if KeepListing(listing, minStipend) {
			result.Internships = append(result.Internships, listing)
		} else {
			listing.Status = models.StatusSkipped
			result.Skipped = append(result.Skipped, listing)
		}
	}
	return nil
}

// extractListing pulls one structured record out of a result card using
// the fallback chains. A field with no matching selector gets its fixed
// placeholder; the record itself is always kept.
func (s *SearchService) extractListing(card playwright.Locator) *models.Internship {
	listing := &models.Internship{
		ID:       "int_" + uuid.NewString(),
		Title:    firstMatchText(card, titleSelectors, "Unknown Position"),
		Company:  firstMatchText(card, companySelectors, "Unknown Company"),
		Location: firstMatchText(card, locationSelectors, "Not specified"),
		Stipend:  firstMatchText(card, stipendSelectors, "Not disclosed"),
		Posted:   firstMatchText(card, postedSelectors, "Recently"),
		Link:     s.detailLink(card),
		Status:   models.StatusPending,
	}
	listing.StipendAmount, listing.HasStipend = ParseStipend(listing.Stipend)
	return listing
}

// firstMatchText walks an ordered selector chain scoped to the card and
// returns the first matching element's trimmed text.
func firstMatchText(card playwright.Locator, selectors []string, placeholder string) string {
	for _, selector := range selectors {
		loc := card.Locator(selector).First()
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		text, err := loc.TextContent()
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
	}
	return placeholder
}

// detailLink resolves the card's detail-page URL; a card without a
// recognizable detail link gets a non-navigable placeholder.
func (s *SearchService) detailLink(card playwright.Locator) string {
	loc := card.Locator(detailLinkSelector).First()
	if count, err := loc.Count(); err != nil || count == 0 {
		return "#"
	}
	href, err := loc.GetAttribute("href")
	if err != nil || href == "" {
		return "#"
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.cfg.BaseURL + href
}
