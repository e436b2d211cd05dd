package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/smartlib/libreg/internal/library"
	"github.com/smartlib/libreg/internal/preview"
	"github.com/smartlib/libreg/internal/wizardmcp"
	"github.com/spf13/cobra"
)

var serveMCPFlags struct {
	dataDir string
	port    int
}

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Serve a registration wizard over MCP",
	Long: `Start an MCP server (streamable HTTP) that drives one headless
registration wizard. Agents fill fields, continue checkpoints, stage a logo
from disk and submit through tools. Every wizard event is journaled.`,
	RunE: runServeMCP,
}

func init() {
	serveMCPCmd.Flags().StringVar(&serveMCPFlags.dataDir, "data-dir", "", "Data directory (overrides config)")
	serveMCPCmd.Flags().IntVarP(&serveMCPFlags.port, "port", "p", -1, "Port to listen on (default from config, 0 = random)")
}

func runServeMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveMCPFlags.dataDir != "" {
		cfg.DataDir = serveMCPFlags.dataDir
	}
	port := cfg.MCPPort
	if serveMCPFlags.port >= 0 {
		port = serveMCPFlags.port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctrl, err := library.NewWizard(cfg, store.Submit, preview.NewRegistry())
	if err != nil {
		return fmt.Errorf("creating wizard: %w", err)
	}
	defer ctrl.Close()

	session := uuid.NewString()
	ctrl.Subscribe(store.Journal(ctx, session))

	srv := wizardmcp.New(ctrl, cfg.MaxLogoBytes)
	if _, err := srv.Start(ctx, port); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wizard session %s\nMCP endpoint: %s\n", session, srv.URL())
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
