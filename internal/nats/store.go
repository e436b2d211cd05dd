package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName  = "libreg_events"
	subjectRoot = "libreg"

	// Event types
	EventTypeRegistration = "registration"
	EventTypeWizard       = "wizard"
)

// SubjectForType returns the wildcard subject for every event of one type.
// Example: "libreg.registration.>"
func SubjectForType(eventType string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, eventType)
}

// SubjectForEvent returns the subject of one event.
// Example: "libreg.registration.city-library"
func SubjectForEvent(eventType, token string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, eventType, sanitizeToken(token))
}

// sanitizeToken keeps a subject token free of separators and wildcards.
func sanitizeToken(token string) string {
	token = strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, token)
	if token == "" {
		return "_"
	}
	return token
}

// SetupStream creates or updates the stream holding all libreg events,
// retained for one year.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   365 * 24 * time.Hour,
	})
}
