package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/nats"
	"github.com/smartlib/libreg/internal/wizard"
)

// JournalEntry is a wizard event as stored. Field values are never journaled.
type JournalEntry struct {
	Session   string    `json:"session"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Step      int       `json:"step"`
	StepKey   string    `json:"step_key,omitempty"`
	Field     string    `json:"field,omitempty"`
	Slot      string    `json:"slot,omitempty"`
	Error     string    `json:"error,omitempty"`
}

type journalMeta struct {
	Step    int    `json:"step"`
	StepKey string `json:"step_key,omitempty"`
	Field   string `json:"field,omitempty"`
	Slot    string `json:"slot,omitempty"`
}

// Journal returns an observer that appends every wizard event to the log
// under session. Publish failures are logged and never reach the wizard.
func (s *Store) Journal(ctx context.Context, session string) wizard.Observer {
	return func(e wizard.Event) {
		meta, _ := json.Marshal(journalMeta{Step: e.Step, StepKey: e.StepKey, Field: e.Field, Slot: e.Slot})
		event := Event{
			Type:   nats.EventTypeWizard,
			Token:  session,
			Action: string(e.Type),
			Meta:   meta,
		}
		if e.Err != nil {
			event.Data = e.Err.Error()
		}
		if _, err := s.PublishEvent(ctx, event); err != nil {
			logger.Warn("Journal %s: dropping %s event: %v", session, e.Type, err)
		}
	}
}

// LoadJournal returns the journaled events of session in order.
func (s *Store) LoadJournal(ctx context.Context, session string) ([]JournalEntry, error) {
	var entries []JournalEntry
	err := s.replay(ctx, nats.SubjectForEvent(nats.EventTypeWizard, session), func(e Event) {
		var meta journalMeta
		_ = json.Unmarshal(e.Meta, &meta)
		entries = append(entries, JournalEntry{
			Session:   e.Token,
			Timestamp: e.Timestamp,
			Type:      e.Action,
			Step:      meta.Step,
			StepKey:   meta.StepKey,
			Field:     meta.Field,
			Slot:      meta.Slot,
			Error:     e.Data,
		})
	})
	return entries, err
}
