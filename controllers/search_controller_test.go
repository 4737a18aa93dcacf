package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"internbot/models"
	"internbot/services"
)

type mockSearcher struct {
	result  *services.SearchResult
	err     error
	filters models.SearchFilters
}

func (m *mockSearcher) Search(filters models.SearchFilters) (*services.SearchResult, error) {
	m.filters = filters
	return m.result, m.err
}

func searchRouter(searcher InternshipSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/search-internships", NewSearchController(searcher).SearchInternships)
	return r
}

func TestSearchInternships_ReturnsListings(t *testing.T) {
	searcher := &mockSearcher{result: &services.SearchResult{
		Success: true,
		Internships: []*models.Internship{
			{ID: "int_1", Title: "React Intern", Company: "Acme", Stipend: "₹ 8,000/month", Status: models.StatusPending},
		},
		Count: 1,
	}}
	r := searchRouter(searcher)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"keywords":"react, node.js","location":"Mumbai","remoteOnly":false,"minStipend":5000}`)
	req, _ := http.NewRequest("POST", "/api/search-internships", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp services.SearchResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Len(t, resp.Internships, 1)

	assert.Equal(t, "react, node.js", searcher.filters.Keywords)
	assert.Equal(t, 5000, searcher.filters.MinStipend)
}

func TestSearchInternships_ZeroResultsIsSuccess(t *testing.T) {
	searcher := &mockSearcher{result: &services.SearchResult{Success: true, Count: 0}}
	r := searchRouter(searcher)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/search-internships", bytes.NewBufferString(`{"keywords":"cobol"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestSearchInternships_NotLoggedIn(t *testing.T) {
	searcher := &mockSearcher{err: services.ErrNotLoggedIn}
	r := searchRouter(searcher)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/search-internships", bytes.NewBufferString(`{"keywords":"react"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchInternships_SelectorTimeoutIsFailure(t *testing.T) {
	searcher := &mockSearcher{result: &services.SearchResult{
		Success: false,
		Message: "no listing cards appeared: timeout",
	}}
	r := searchRouter(searcher)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/search-internships", bytes.NewBufferString(`{"keywords":"react"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "no listing cards appeared")
}
