package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/smartlib/libreg/internal/config"
	"github.com/smartlib/libreg/internal/nats"
	"github.com/smartlib/libreg/internal/registry"
)

// openStore starts the embedded backend under the configured data directory.
// The returned close function shuts it down.
func openStore(ctx context.Context, cfg *config.Config) (*registry.Store, func(), error) {
	e, err := nats.Start(ctx, filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		return nil, nil, fmt.Errorf("starting registration backend: %w", err)
	}

	store := registry.NewStore(e.JS, e.Stream, registry.Options{
		MaxLogoBytes:  cfg.MaxLogoBytes,
		SubmitTimeout: cfg.SubmitTimeout,
	})
	return store, func() { _ = e.Close() }, nil
}
