package wizard

import (
	"errors"
	"fmt"
)

// User-facing messages published through State.Error.
const (
	MsgIncompleteStep   = "Please complete required fields for this checkpoint."
	MsgInvalidAsset     = "Please upload a valid image file."
	MsgIncompleteWizard = "Please complete all checkpoints correctly."
)

var (
	// ErrInvalidAssetType is returned when a staged file is not an image.
	ErrInvalidAssetType = errors.New("invalid asset type: an image is required")

	// ErrEmptyAsset is returned when a staged image has no content.
	// It matches ErrInvalidAssetType under errors.Is.
	ErrEmptyAsset = fmt.Errorf("%w: empty file", ErrInvalidAssetType)

	// ErrIncompleteWizard is returned by Submit when any step fails final validation.
	ErrIncompleteWizard = errors.New("wizard incomplete: one or more steps failed validation")

	// ErrSubmitInProgress is returned when a submission is started while another is pending.
	ErrSubmitInProgress = errors.New("submission already in progress")

	// ErrUnknownSlot is returned when a file is selected for a slot no step owns.
	ErrUnknownSlot = errors.New("unknown upload slot")

	// ErrClosed is returned by asset operations after the controller was torn down.
	ErrClosed = errors.New("wizard closed")
)

// StepValidationFailedError reports a rejected Advance.
type StepValidationFailedError struct {
	Index int
	Key   string
}

func (e *StepValidationFailedError) Error() string {
	return fmt.Sprintf("step %d (%s) failed validation", e.Index, e.Key)
}
