package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"internbot/models"
)

// ErrRunActive is returned when a run is started while one is already
// in progress. Filters and answers are snapshotted at Start, so the
// only way to change them is to stop and start again.
var ErrRunActive = errors.New("a run is already active")

// Searcher populates the job queue once per run.
type Searcher interface {
	Search(filters models.SearchFilters) (*SearchResult, error)
}

// Applier submits one application. At most one call is in flight at a
// time because the shared page cannot handle concurrent navigations.
type Applier interface {
	Apply(internshipURL string, answers []models.AnswerTemplate) (*ApplyResult, error)
}

// HistoryRecorder persists terminal job outcomes.
type HistoryRecorder interface {
	Record(listing *models.Internship, message string) error
}

// RunStats summarizes the job queue for the dashboard tiles.
type RunStats struct {
	Total   int `json:"total"`
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Pending int `json:"pending"`
}

// Bot owns the per-run job queue and drives the status state machine
// PENDING -> APPLYING -> APPLIED | FAILED. A single worker goroutine
// drains the queue, which guarantees at most one application in flight.
type Bot struct {
	searcher Searcher
	applier  Applier
	logs     *LogBuffer
	history  HistoryRecorder

	mu      sync.Mutex
	jobs    []*models.Internship
	answers []models.AnswerTemplate
	running bool
	stopped bool
	done    chan struct{}
}

func NewBot(searcher Searcher, applier Applier, logs *LogBuffer, history HistoryRecorder) *Bot {
	return &Bot{
		searcher: searcher,
		applier:  applier,
		logs:     logs,
		history:  history,
	}
}

// Start searches once with the given filters, populates the queue and
// begins applying. The filters and answers are snapshotted for the
// whole run.
func (b *Bot) Start(filters models.SearchFilters, answers []models.AnswerTemplate) (int, error) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return 0, ErrRunActive
	}
	b.running = true
	b.stopped = false
	b.mu.Unlock()

	b.logs.Append(fmt.Sprintf("Searching Internshala for: %q...", filters.Keywords), models.LogInfo)

	result, err := b.searcher.Search(filters)
	if err != nil || !result.Success {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
		if err == nil {
			err = errors.New(result.Message)
		}
		b.logs.Append("Search failed: "+err.Error(), models.LogError)
		return 0, err
	}

	for _, skipped := range result.Skipped {
		b.recordHistory(skipped, "Below minimum stipend")
	}

	b.mu.Lock()
	b.jobs = result.Internships
	b.answers = append([]models.AnswerTemplate(nil), answers...)
	b.done = make(chan struct{})
	b.mu.Unlock()

	if result.Count == 0 {
		b.logs.Append("No internships found matching your criteria", models.LogWarning)
	} else {
		b.logs.Append(fmt.Sprintf("Found %d matching internships!", result.Count), models.LogSuccess)
	}

	go b.drain()
	return result.Count, nil
}

// Stop halts scheduling of new applications. An application already in
// flight finishes rather than being aborted mid-navigation, which would
// leave the shared page in an unknown state.
func (b *Bot) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	b.mu.Unlock()
	b.logs.Append("Bot stopped by user.", models.LogWarning)
}

// Wait blocks until the current run's worker exits. No-op when no run
// was ever started.
func (b *Bot) Wait() {
	b.mu.Lock()
	done := b.done
	b.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether a run is in progress.
func (b *Bot) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Jobs returns a snapshot of the queue.
func (b *Bot) Jobs() []models.Internship {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Internship, len(b.jobs))
	for i, job := range b.jobs {
		out[i] = *job
	}
	return out
}

// Stats aggregates job statuses.
func (b *Bot) Stats() RunStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	stats := RunStats{Total: len(b.jobs)}
	for _, job := range b.jobs {
		switch job.Status {
		case models.StatusApplied:
			stats.Applied++
		case models.StatusFailed:
			stats.Failed++
		case models.StatusSkipped:
			stats.Skipped++
		default:
			stats.Pending++
		}
	}
	return stats
}

// drain is the single worker: it repeatedly claims the next PENDING job
// and applies to it until the queue is empty or the run is stopped.
func (b *Bot) drain() {
	defer func() {
		b.mu.Lock()
		b.running = false
		close(b.done)
		b.mu.Unlock()
	}()

	for {
		job, answers := b.claimNext()
		if job == nil {
			b.logs.Append("Run finished.", models.LogInfo)
			return
		}

		b.logs.Append(fmt.Sprintf("Applying to %s at %s...", job.Title, job.Company), models.LogInfo)
		b.processJob(job, answers)
	}
}

// claimNext atomically selects the first PENDING job and marks it
// APPLYING, so a job can never be picked up twice. Returns nil when the
// run should end.
func (b *Bot) claimNext() (*models.Internship, []models.AnswerTemplate) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil, nil
	}
	for _, job := range b.jobs {
		if job.Status == models.StatusPending {
			job.Status = models.StatusApplying
			return job, b.answers
		}
	}
	return nil, nil
}

// processJob runs one application and records the terminal status. One
// job's failure never stops the run.
func (b *Bot) processJob(job *models.Internship, answers []models.AnswerTemplate) {
	result, err := b.applier.Apply(job.Link, answers)

	var message string
	var status models.JobStatus
	switch {
	case err != nil:
		status = models.StatusFailed
		message = err.Error()
		b.logs.Append(fmt.Sprintf("Error applying to %s: %s", b.shortName(job), message), models.LogError)
	case result.Success:
		status = models.StatusApplied
		message = result.Message
		b.logs.Append(fmt.Sprintf("Successfully applied to %s!", b.shortName(job)), models.LogSuccess)
	default:
		status = models.StatusFailed
		message = result.Message
		b.logs.Append(fmt.Sprintf("Failed to apply to %s: %s", b.shortName(job), message), models.LogError)
	}

	b.setTerminalStatus(job, status)
	b.recordHistory(job, message)
}

// setTerminalStatus finalizes a job. Transitions are monotonic: a job
// that somehow already reached a terminal state is left untouched.
func (b *Bot) setTerminalStatus(job *models.Internship, status models.JobStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if job.Status.Terminal() {
		return
	}
	job.Status = status
}

func (b *Bot) recordHistory(listing *models.Internship, message string) {
	if b.history == nil {
		return
	}
	if err := b.history.Record(listing, message); err != nil {
		log.Warn().Err(err).Str("id", listing.ID).Msg("could not record application history")
	}
}

func (b *Bot) shortName(job *models.Internship) string {
	if job.Company != "" {
		return job.Company
	}
	return job.Title
}
