package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/smartlib/libreg/internal/config"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█   █ █▀▄ █▀█ █▀▀ █▀▀"
	logoText2 = "█▄▄ █ █▄█ █▀▄ ██▄ █▄█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "libreg",
	Short: "Register a library through a step-by-step terminal wizard",
}

func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	return strings.Join([]string{
		theme.ApplyGradient(logoText1, t.Primary, t.Secondary),
		theme.ApplyGradient(logoText2, t.Primary, t.Secondary),
	}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

libreg walks a librarian through registering a library: details, logo,
lending policy and administrator account. Each checkpoint is validated
before the wizard moves on. Registrations are stored in an embedded NATS
JetStream log under the data directory.`

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(registrationsCmd)
	rootCmd.AddCommand(serveMCPCmd)
	rootCmd.AddCommand(setupCmd)
}

// loadConfig loads configuration and points the logger at the configured
// destination.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}
