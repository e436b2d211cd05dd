package wizard

import (
	"fmt"
	"strings"

	"github.com/smartlib/libreg/internal/logger"
)

// Asset is a user-supplied file held in memory.
type Asset struct {
	Name      string
	MediaType string
	Data      []byte
}

// IsImage reports whether the asset's media type is image/*.
func (a Asset) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.MediaType)), "image/")
}

// PreviewHandle is an opaque, revocable reference to a rendered preview.
type PreviewHandle string

// PreviewAllocator creates and revokes preview handles.
// Handles are a scarce resource; every Create must be paired with a Revoke.
type PreviewAllocator interface {
	Create(Asset) (PreviewHandle, error)
	Revoke(PreviewHandle)
}

// StagedAsset pairs a staged file with its live preview handle.
type StagedAsset struct {
	File   Asset
	Handle PreviewHandle
}

// AssetStager owns at most one staged asset for a single upload slot.
type AssetStager struct {
	slot    string
	alloc   PreviewAllocator
	current *StagedAsset
}

// NewAssetStager creates a stager for slot using alloc for previews.
func NewAssetStager(slot string, alloc PreviewAllocator) *AssetStager {
	return &AssetStager{slot: slot, alloc: alloc}
}

// Stage replaces the staged asset. Non-images are rejected with
// ErrInvalidAssetType and empty files with ErrEmptyAsset; both leave the
// current asset untouched.
// The previous handle is revoked before the new one is allocated.
func (s *AssetStager) Stage(a Asset) (PreviewHandle, error) {
	if !a.IsImage() {
		logger.Debug("Rejected %q for slot %s: media type %q", a.Name, s.slot, a.MediaType)
		return "", ErrInvalidAssetType
	}
	if len(a.Data) == 0 {
		logger.Debug("Rejected %q for slot %s: empty file", a.Name, s.slot)
		return "", ErrEmptyAsset
	}

	s.revoke()

	handle, err := s.alloc.Create(a)
	if err != nil {
		return "", fmt.Errorf("creating preview for %s: %w", s.slot, err)
	}
	s.current = &StagedAsset{File: a, Handle: handle}
	logger.Debug("Staged %q in slot %s (handle=%s)", a.Name, s.slot, handle)
	return handle, nil
}

// Clear revokes the current handle and drops the staged asset.
func (s *AssetStager) Clear() {
	s.revoke()
}

// Current returns the staged asset, or nil.
func (s *AssetStager) Current() *StagedAsset {
	return s.current
}

// Slot returns the slot name.
func (s *AssetStager) Slot() string {
	return s.slot
}

func (s *AssetStager) revoke() {
	if s.current == nil {
		return
	}
	s.alloc.Revoke(s.current.Handle)
	logger.Debug("Revoked preview %s for slot %s", s.current.Handle, s.slot)
	s.current = nil
}
