package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"bookshelf/internal/config"
	"bookshelf/internal/store"
)

func main() {
	command := flag.String("command", "up", "Migration command: "+strings.Join(store.Commands, ", "))
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())

	if err := run(context.Background(), cfg, *command); err != nil {
		slog.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, command string) error {
	if !slices.Contains(store.Commands, command) {
		return fmt.Errorf("unknown command %q, use one of: %s", command, strings.Join(store.Commands, ", "))
	}

	pool, err := store.Connect(ctx, cfg.DBDSN, cfg.DBTimeout)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := store.Migrate(ctx, pool, command); err != nil {
		return err
	}
	slog.Info("migration command finished", "command", command, "dsn", store.RedactDSN(cfg.DBDSN))
	return nil
}
