package main

import (
	"context"
	"testing"

	"bookshelf/internal/config"
)

func TestRun_RejectsUnknownCommandBeforeConnecting(t *testing.T) {
	// The DSN is unreachable: reaching Connect would fail with a different error.
	cfg := config.Config{DBDSN: "postgres://127.0.0.1:1/none"}

	err := run(context.Background(), cfg, "create")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if got := err.Error(); got != `unknown command "create", use one of: up, down, status, version` {
		t.Fatalf("unexpected error: %q", got)
	}
}
