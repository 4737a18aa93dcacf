package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"internbot/models"
)

// LogBuffer is the append-only sequence of run events shown in the
// dashboard console. Entries are never mutated or removed; readers get
// a snapshot.
type LogBuffer struct {
	mu      sync.Mutex
	entries []models.BotLog
}

func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Append adds one entry. Ordering is emission order.
func (b *LogBuffer) Append(message string, logType models.LogType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, models.BotLog{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   message,
		Type:      logType,
	})
}

// Snapshot returns a copy of all entries so far.
func (b *LogBuffer) Snapshot() []models.BotLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.BotLog, len(b.entries))
	copy(out, b.entries)
	return out
}
