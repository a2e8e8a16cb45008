// Command import looks up ISBNs in the catalog and adds every match to the
// library.
//
//	import [-workers n] isbn...
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bookshelf/internal/app"
	"bookshelf/internal/config"
)

func main() {
	workers := flag.Int("workers", 4, "Concurrent catalog lookups")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-workers n] isbn...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	sum, err := importISBNs(ctx, a.Books, flag.Args(), *workers, logger)
	logger.Info("import finished",
		"imported", sum.Imported,
		"not_found", sum.NotFound,
		"failed", sum.Failed,
	)
	if err != nil {
		logger.Error("import aborted", "error", err)
		os.Exit(1)
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
