package logs

import (
	"context"
	"log"
	"time"

	"cityhub/internal/domain"
	"cityhub/internal/pkg/pagination"
	"cityhub/internal/repository"
)

type Service struct {
	logs        *repository.LogRepository
	environment string
}

func NewService(logs *repository.LogRepository, environment string) *Service {
	return &Service{logs: logs, environment: environment}
}

// Record persists a backend log row. Best-effort: persistence failures are
// written to stderr and swallowed so logging never takes a request down.
// Satisfies middleware.RequestLogRecorder.
func (s *Service) Record(entry domain.LogEntry) {
	entry.Source = domain.LogSourceBackend
	entry.Environment = s.environment

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.logs.Create(ctx, &entry); err != nil {
			log.Printf("log persist failed: %v", err)
		}
	}()
}

// Ingest stores a log record reported by the front end.
func (s *Service) Ingest(ctx context.Context, req ClientLogRequest, ip string) (*domain.LogEntry, error) {
	ts := time.Now()
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			ts = parsed
		}
	}

	entry := &domain.LogEntry{
		Timestamp:    ts,
		Level:        req.Level,
		Message:      req.Message,
		Source:       domain.LogSourceFrontend,
		Environment:  s.environment,
		Path:         req.URL,
		IP:           ip,
		UserAgent:    req.UserAgent,
		ErrorName:    req.ErrorName,
		ErrorMessage: req.ErrorMessage,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, filter repository.LogFilter, p pagination.Params) ([]domain.LogEntry, int64, error) {
	return s.logs.List(ctx, filter, p)
}
