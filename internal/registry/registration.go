package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/nats"
	"github.com/smartlib/libreg/internal/wizard"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLogoTooLarge  = errors.New("logo exceeds the maximum size")
	ErrUsernameTaken = errors.New("username is already registered")
	ErrMissingLogo   = errors.New("registration has no logo")
)

// Logo is the stored logo file.
type Logo struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Data      []byte `json:"data"`
}

// Record is a stored registration. Fields holds the backend form fields
// with the password replaced by its bcrypt hash.
type Record struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	CreatedAt time.Time         `json:"created_at"`
	Fields    map[string]string `json:"fields"`
	Logo      *Logo             `json:"logo,omitempty"`
}

// LibraryName returns the registered library name.
func (r Record) LibraryName() string { return r.Fields[library.FormLibraryName] }

// Username returns the administrator account name.
func (r Record) Username() string { return r.Fields[library.FormUsername] }

// CheckPassword reports whether password matches the stored hash.
func (r Record) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.Fields[library.FormPassword]), []byte(password)) == nil
}

// Registration returns the record as a registration without the password.
func (r Record) Registration() library.Registration {
	reg := library.Registration{
		LibraryName:    r.Fields[library.FormLibraryName],
		LibraryAddress: r.Fields[library.FormLibraryAddress],
		LibraryPhone:   r.Fields[library.FormLibraryPhone],
		PenaltyPerDay:  r.Fields[library.FormPenaltyPerDay],
		BorrowLimit:    r.Fields[library.FormBorrowLimit],
		Username:       r.Fields[library.FormUsername],
		Email:          r.Fields[library.FormEmail],
	}
	if r.Logo != nil {
		reg.Logo = &wizard.Asset{Name: r.Logo.Name, MediaType: r.Logo.MediaType, Data: r.Logo.Data}
	}
	return reg
}

// Submit is a wizard.SubmitFunc: it validates the payload as the
// registration backend would and appends it to the log.
func (s *Store) Submit(ctx context.Context, p wizard.Payload) error {
	_, err := s.Register(ctx, library.FromPayload(p))
	return err
}

// Register stores reg and returns the new record.
func (s *Store) Register(ctx context.Context, reg library.Registration) (*Record, error) {
	if s.opts.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.SubmitTimeout)
		defer cancel()
	}

	if reg.Logo == nil {
		return nil, ErrMissingLogo
	}
	if s.opts.MaxLogoBytes > 0 && int64(len(reg.Logo.Data)) > s.opts.MaxLogoBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrLogoTooLarge, len(reg.Logo.Data), s.opts.MaxLogoBytes)
	}

	existing, err := s.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if strings.EqualFold(r.Username(), reg.Username) {
			return nil, ErrUsernameTaken
		}
	}

	cost := s.opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	fields := reg.FormFields()
	fields[library.FormPassword] = string(hash)

	rec := &Record{
		ID:        uuid.NewString(),
		Slug:      slug.Make(reg.LibraryName),
		CreatedAt: s.now().UTC(),
		Fields:    fields,
		Logo:      &Logo{Name: reg.Logo.Name, MediaType: reg.Logo.MediaType, Data: reg.Logo.Data},
	}

	meta, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration: %w", err)
	}

	if _, err := s.PublishEvent(ctx, Event{
		ID:        rec.ID,
		Timestamp: rec.CreatedAt,
		Type:      nats.EventTypeRegistration,
		Token:     rec.Slug,
		Action:    "create",
		Meta:      meta,
		Data:      reg.LibraryName,
	}); err != nil {
		return nil, err
	}

	logger.Info("Registered library %q as %s", reg.LibraryName, rec.ID)
	return rec, nil
}

// ListRegistrations returns every stored registration, oldest first.
func (s *Store) ListRegistrations(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.replay(ctx, nats.SubjectForType(nats.EventTypeRegistration), func(e Event) {
		if e.Action != "create" {
			return
		}
		var rec Record
		if err := json.Unmarshal(e.Meta, &rec); err != nil {
			logger.Warn("Skipping registration %s: %v", e.ID, err)
			return
		}
		records = append(records, rec)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// FindRegistration returns the registration with the given id, or the first
// whose slug matches.
func (s *Store) FindRegistration(ctx context.Context, idOrSlug string) (*Record, error) {
	records, err := s.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == idOrSlug || records[i].Slug == idOrSlug {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("registration %q not found", idOrSlug)
}
