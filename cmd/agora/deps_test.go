package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jllopis/agora/pkg/config"
)

func TestBuildMailboxesMemory(t *testing.T) {
	cfg := &config.Config{}

	factory, closer, err := buildMailboxes(cfg)
	if err != nil {
		t.Fatalf("buildMailboxes: %v", err)
	}
	defer closer()

	box, err := factory("Bob")
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if err := box.Append(context.Background(), "hi"); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestBuildMailboxesSQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mailbox.Backend = "sqlite"
	cfg.Mailbox.DSN = filepath.Join(t.TempDir(), "mailbox.db")

	factory, closer, err := buildMailboxes(cfg)
	if err != nil {
		t.Fatalf("buildMailboxes: %v", err)
	}
	defer closer()

	ctx := context.Background()
	bob, err := factory("Bob")
	if err != nil {
		t.Fatalf("factory(Bob): %v", err)
	}
	alice, err := factory("Alice")
	if err != nil {
		t.Fatalf("factory(Alice): %v", err)
	}

	if err := bob.Append(ctx, "report please"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := bob.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0] != "report please" {
		t.Fatalf("Bob's entries = %v", entries)
	}

	// Owners share the database but not the inbox.
	others, err := alice.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("Alice's entries = %v", others)
	}
}

func TestBuildMailboxesUnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mailbox.Backend = "redis"

	if _, _, err := buildMailboxes(cfg); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}
