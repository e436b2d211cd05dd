package library

import (
	"github.com/smartlib/libreg/internal/config"
	"github.com/smartlib/libreg/internal/wizard"
)

// NewWizard builds a registration wizard configured from cfg.
func NewWizard(cfg *config.Config, submit wizard.SubmitFunc, previews wizard.PreviewAllocator) (*wizard.Controller, error) {
	return wizard.New(wizard.Options{
		Steps:         Steps(ThresholdsFromConfig(cfg)),
		Submit:        submit,
		Previews:      previews,
		PulseDuration: cfg.PulseDuration,
	})
}
