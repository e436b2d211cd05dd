package main

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/preview"
	"github.com/smartlib/libreg/internal/state"
	"github.com/smartlib/libreg/internal/tui/register"
	"github.com/spf13/cobra"
)

var registerFlags struct {
	dataDir string
	journal bool
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a library in the interactive wizard",
	Long: `Open the full-screen registration wizard.

Every checkpoint is shown as a panel in one scrolling view. Continue
validates the checkpoint and moves on; scrolling only changes which
checkpoint is highlighted. Submitting stores the registration in the
embedded backend.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerFlags.dataDir, "data-dir", "", "Data directory (overrides config)")
	registerCmd.Flags().BoolVar(&registerFlags.journal, "journal", false, "Record wizard events in the backend")
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if registerFlags.dataDir != "" {
		cfg.DataDir = registerFlags.dataDir
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	previews := preview.NewRegistry()
	ctrl, err := library.NewWizard(cfg, store.Submit, previews)
	if err != nil {
		return fmt.Errorf("creating wizard: %w", err)
	}
	defer ctrl.Close()

	if registerFlags.journal {
		session := uuid.NewString()
		ctrl.Subscribe(store.Journal(ctx, session))
		logger.Info("Journaling wizard session %s", session)
	}

	prefs := state.Load(cfg.DataDir)
	m := register.New(register.Options{
		Controller:   ctrl,
		Previews:     previews,
		Prefs:        prefs,
		MaxLogoBytes: cfg.MaxLogoBytes,
		Context:      ctx,
	})

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	if err := state.Save(cfg.DataDir, m.Prefs()); err != nil {
		logger.Warn("Failed to save preferences: %v", err)
	}

	res := m.Result()
	switch {
	case res.Registered:
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s is registered.\n", register.MsgRegistered, res.Registration.LibraryName)
	case res.Cancelled:
		fmt.Fprintln(cmd.OutOrStdout(), "Registration cancelled.")
	}
	return nil
}
