package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"internbot/models"
	"internbot/services"
	"internbot/utils"
)

// InternshipSearcher runs one search pass against the remote site.
type InternshipSearcher interface {
	Search(filters models.SearchFilters) (*services.SearchResult, error)
}

// SearchController handles the listing search endpoint.
type SearchController struct {
	searcher InternshipSearcher
}

func NewSearchController(searcher InternshipSearcher) *SearchController {
	return &SearchController{searcher: searcher}
}

// SearchInternships extracts structured listings for the given filters.
// Selector or navigation failures come back as success=false with the
// underlying message; an empty result set is success=true, count=0.
// @Router /api/search-internships [post]
func (sc *SearchController) SearchInternships(c *gin.Context) {
	var filters models.SearchFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		utils.BadRequestError(c, "Invalid request format", err)
		return
	}

	result, err := sc.searcher.Search(filters)
	if err != nil {
		if errors.Is(err, services.ErrNotLoggedIn) {
			utils.UnauthorizedError(c, "Not logged in")
			return
		}
		utils.InternalServerError(c, "Search failed: "+err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, result)
}
