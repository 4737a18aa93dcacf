package models

// JobStatus tracks an internship through the application pipeline.
// Transitions are monotonic: once a job reaches APPLIED, FAILED or
// SKIPPED it never changes again within a run.
type JobStatus string

const (
	StatusPending  JobStatus = "PENDING"
	StatusApplying JobStatus = "APPLYING"
	StatusApplied  JobStatus = "APPLIED"
	StatusFailed   JobStatus = "FAILED"
	StatusSkipped  JobStatus = "SKIPPED"
)

// Terminal reports whether no further transition is allowed.
func (s JobStatus) Terminal() bool {
	return s == StatusApplied || s == StatusFailed || s == StatusSkipped
}

// Internship is one listing extracted from a search results page.
// Everything except Status is immutable after extraction.
type Internship struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Stipend       string    `json:"stipend"`
	StipendAmount int       `json:"stipendAmount,omitempty"`
	HasStipend    bool      `json:"-"`
	Posted        string    `json:"posted"`
	Link          string    `json:"link"`
	Status        JobStatus `json:"status"`
}

// AnswerTemplate pairs an application question with the answer the bot
// submits. Answers are consumed positionally: answer i fills the i-th
// answer field found on the form.
type AnswerTemplate struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SearchFilters is the configuration for one run. RemoteOnly wins over
// Location; the two filters are mutually exclusive on the remote site.
type SearchFilters struct {
	Keywords   string `json:"keywords"`
	Location   string `json:"location"`
	RemoteOnly bool   `json:"remoteOnly"`
	MinStipend int    `json:"minStipend"`
}
