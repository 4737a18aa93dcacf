package services

import (
	"encoding/json"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"

	"internbot/models"
)

func TestBuildSearchURL_KeywordAndLocation(t *testing.T) {
	url := BuildSearchURL("https://internshala.com", models.SearchFilters{
		Keywords:   "react, node.js",
		Location:   "Mumbai",
		RemoteOnly: false,
		MinStipend: 5000,
	})

	assert.Contains(t, url, "/internships/react-internship")
	assert.Contains(t, url, "location=Mumbai")
	assert.NotContains(t, url, "type=virtual")
}

func TestBuildSearchURL_RemoteWinsOverLocation(t *testing.T) {
	url := BuildSearchURL("https://internshala.com", models.SearchFilters{
		Keywords:   "python",
		Location:   "Delhi",
		RemoteOnly: true,
	})

	assert.Contains(t, url, "type=virtual")
	assert.NotContains(t, url, "location=")
}

func TestBuildSearchURL_MultiWordKeyword(t *testing.T) {
	url := BuildSearchURL("https://internshala.com", models.SearchFilters{
		Keywords: "Web Development, react",
	})

	assert.Contains(t, url, "/internships/web-development-internship")
}

func TestBuildSearchURL_NoKeywords(t *testing.T) {
	url := BuildSearchURL("https://internshala.com", models.SearchFilters{})

	assert.Equal(t, "https://internshala.com/internships/internship", url)
}

func TestParseStipend(t *testing.T) {
	tests := []struct {
		text   string
		amount int
		found  bool
	}{
		{"₹ 8,000/month", 8000, true},
		{"₹ 2,000/month", 2000, true},
		{"₹10000 /month", 10000, true},
		{"5000", 5000, true},
		{"₹ 1,20,000 total", 120000, true},
		{"Unpaid", 0, false},
		{"Not disclosed", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		amount, found := ParseStipend(tt.text)
		assert.Equal(t, tt.found, found, "text %q", tt.text)
		assert.Equal(t, tt.amount, amount, "text %q", tt.text)
	}
}

func TestKeepListing_MinStipendFilter(t *testing.T) {
	kept := &models.Internship{Stipend: "₹ 8,000/month"}
	kept.StipendAmount, kept.HasStipend = ParseStipend(kept.Stipend)

	excluded := &models.Internship{Stipend: "₹ 2,000/month"}
	excluded.StipendAmount, excluded.HasStipend = ParseStipend(excluded.Stipend)

	// No parseable amount: kept, fail-open.
	unpaid := &models.Internship{Stipend: "Unpaid"}
	unpaid.StipendAmount, unpaid.HasStipend = ParseStipend(unpaid.Stipend)

	assert.True(t, KeepListing(kept, 5000))
	assert.False(t, KeepListing(excluded, 5000))
	assert.True(t, KeepListing(unpaid, 5000))
}

func TestKeepListing_NoThreshold(t *testing.T) {
	low := &models.Internship{StipendAmount: 100, HasStipend: true}

	assert.True(t, KeepListing(low, 0))
}

func TestSearch_RequiresLogin(t *testing.T) {
	svc := NewSearchService(testConfig(), NewSession(testConfig()))

	result, err := svc.Search(models.SearchFilters{Keywords: "react"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestExtractListing_AllPlaceholdersKept(t *testing.T) {
	svc := NewSearchService(testConfig(), NewSession(testConfig()))

	// A card matching none of the field selectors still yields a
	// record, with every field on its placeholder.
	listing := svc.extractListing(listingCard(nil))

	assert.NotNil(t, listing)
	assert.Equal(t, "Unknown Position", listing.Title)
	assert.Equal(t, "Unknown Company", listing.Company)
	assert.Equal(t, "Not specified", listing.Location)
	assert.Equal(t, "Not disclosed", listing.Stipend)
	assert.Equal(t, "Recently", listing.Posted)
	assert.Equal(t, "#", listing.Link)
	assert.Equal(t, models.StatusPending, listing.Status)
	assert.False(t, listing.HasStipend)
}

func TestExtractListing_FallbackChain(t *testing.T) {
	svc := NewSearchService(testConfig(), NewSession(testConfig()))

	// Only secondary selectors match; the chain falls through to them.
	listing := svc.extractListing(listingCard(map[string]string{
		".profile h3 a":           "React Intern",
		".link_display_like_text": "Acme",
		".stipend":                "₹ 8,000 /month",
	}))

	assert.Equal(t, "React Intern", listing.Title)
	assert.Equal(t, "Acme", listing.Company)
	assert.Equal(t, 8000, listing.StipendAmount)
	assert.True(t, listing.HasStipend)
}

func TestSearchOnPage_NothingSurvivesStillAnArray(t *testing.T) {
	svc := NewSearchService(testConfig(), NewSession(testConfig()))

	// Every card falls below the stipend threshold.
	page := newFakePage()
	page.present[".internship_meta"] = true
	page.cards = []playwright.Locator{
		listingCard(map[string]string{
			".job-internship-name": "Data Entry Intern",
			".company-name":        "Acme",
			".stipend":             "₹ 2,000 /month",
		}),
	}

	result := &SearchResult{}
	err := svc.searchOnPage(page, "https://internshala.com/internships/internship", 5000, result)

	assert.NoError(t, err)
	assert.NotNil(t, result.Internships)
	assert.Empty(t, result.Internships)
	assert.Len(t, result.Skipped, 1)
	assert.Equal(t, models.StatusSkipped, result.Skipped[0].Status)

	body, err := json.Marshal(result)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `"internships":[]`)
}

func TestSearchOnPage_KeepsAndFilters(t *testing.T) {
	svc := NewSearchService(testConfig(), NewSession(testConfig()))

	page := newFakePage()
	page.present[".internship_meta"] = true
	page.cards = []playwright.Locator{
		listingCard(map[string]string{
			".job-internship-name": "React Intern",
			".company-name":        "Acme",
			".stipend":             "₹ 8,000 /month",
		}),
		listingCard(map[string]string{
			".job-internship-name": "Data Entry Intern",
			".company-name":        "Bulk Corp",
			".stipend":             "₹ 2,000 /month",
		}),
		listingCard(nil),
	}

	result := &SearchResult{}
	err := svc.searchOnPage(page, "https://internshala.com/internships/internship", 5000, result)

	assert.NoError(t, err)
	// The parseable-below-threshold card is skipped; the unpaid-looking
	// placeholder card is kept, fail-open.
	assert.Len(t, result.Internships, 2)
	assert.Equal(t, "React Intern", result.Internships[0].Title)
	assert.Equal(t, "Unknown Position", result.Internships[1].Title)
	assert.Len(t, result.Skipped, 1)
}
