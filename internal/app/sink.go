package app

import (
	"github.com/google/uuid"

	"github.com/ayusman/holstercoach/internal/drill"
	"github.com/ayusman/holstercoach/internal/store"
)

// storeSink persists completed session log entries to the database.
type storeSink struct {
	store *store.Store
}

func (s *storeSink) Append(entry drill.LogEntry) error {
	return s.store.Sessions().Append(&store.Session{
		ID:         uuid.New().String(),
		Module:     string(entry.Module),
		Transcript: entry.Transcript,
		StartedAt:  entry.StartedAt,
		StoppedAt:  entry.StoppedAt,
	})
}
