package services

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"
)

// ActivityRecorder is the best-effort audit sink handlers write to.
type ActivityRecorder interface {
	Record(action, details string)
}

// ActivityService appends audit rows. Failures are logged and swallowed; the
// primary operation never depends on the outcome.
type ActivityService struct {
	db *sql.DB
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record inserts one audit row, fire-and-forget.
func (s *ActivityService) Record(action, details string) {
	_, err := s.db.Exec(
		`INSERT INTO activity_logs (action, details, created_at) VALUES ($1, $2, $3)`,
		action, details, time.Now().UTC())
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to record activity")
	}
}
