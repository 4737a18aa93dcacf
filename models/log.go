package models

// LogType is the severity of a bot log line as shown in the dashboard
// console.
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
)

// BotLog is one entry in the append-only run log.
type BotLog struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Message   string  `json:"message"`
	Type      LogType `json:"type"`
}
