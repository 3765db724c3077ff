package cli

import (
	"context"
	"log/slog"

	"github.com/roach88/cmdset/internal/config"
	"github.com/roach88/cmdset/internal/store"
	"github.com/roach88/cmdset/internal/vault"
)

// openStore resolves configuration, applies the --working-dir override,
// and opens the store handle every command works through.
func openStore(ctx context.Context, opts *RootOptions) (*store.Manager, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitFailure, "failed to load config", err)
	}
	if opts.WorkingDir != "" {
		cfg.WorkingDir = opts.WorkingDir
	}

	v := vault.New(vault.Options{
		Dir: cfg.WorkingDir,
		TTL: cfg.SessionTTL(),
	})

	slog.Debug("opening store", "path", cfg.StorePath())
	mgr, err := store.Open(ctx, cfg.WorkingDir, cfg.StoreFile, v)
	if err != nil {
		return nil, config.Config{}, WrapExitError(ExitFailure, "failed to open store", err)
	}
	return mgr, cfg, nil
}

// closeStore closes the handle, logging rather than failing the command:
// by the time we close, the user's operation already succeeded or failed.
func closeStore(mgr *store.Manager) {
	if err := mgr.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}
}
