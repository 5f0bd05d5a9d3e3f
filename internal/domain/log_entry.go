package domain

import "time"

const (
	LogSourceFrontend = "frontend"
	LogSourceBackend  = "backend"
)

// LogEntry is a persisted application log record. Backend rows are written by
// the request-logging middleware; frontend rows arrive through the log
// ingestion endpoint.
type LogEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Timestamp time.Time `json:"timestamp" gorm:"index;not null"`
	Level     string    `json:"level" gorm:"size:16;index;not null"`
	Message   string    `json:"message" gorm:"not null"`

	Source      string `json:"source" gorm:"size:16;index;not null"`
	Environment string `json:"environment" gorm:"size:32;index"`

	Method     string `json:"method,omitempty" gorm:"size:8"`
	Path       string `json:"path,omitempty"`
	Status     int    `json:"status,omitempty" gorm:"index"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	IP         string `json:"ip,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`

	ErrorName    string `json:"error_name,omitempty" gorm:"index"`
	ErrorMessage string `json:"error_message,omitempty"`

	RequestID string    `json:"request_id,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
}
