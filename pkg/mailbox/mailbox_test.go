package mailbox

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func mailboxes(t *testing.T) map[string]Mailbox {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sqlite, err := NewSQLite(db, "Bob")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}

	return map[string]Mailbox{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestAppendAndEntriesOrder(t *testing.T) {
	for name, box := range mailboxes(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			messages := []string{"Hello Bob! How are you?", "Lunch at noon?", "Hello Bob! How are you?"}
			for _, msg := range messages {
				if err := box.Append(ctx, msg); err != nil {
					t.Fatalf("Append: %v", err)
				}
			}

			entries, err := box.Entries(ctx)
			if err != nil {
				t.Fatalf("Entries: %v", err)
			}
			if len(entries) != len(messages) {
				t.Fatalf("Entries = %d, want %d", len(entries), len(messages))
			}
			for i, msg := range messages {
				if entries[i] != msg {
					t.Fatalf("entries[%d] = %q, want %q", i, entries[i], msg)
				}
			}

			n, err := box.Len(ctx)
			if err != nil {
				t.Fatalf("Len: %v", err)
			}
			if n != len(messages) {
				t.Fatalf("Len = %d, want %d", n, len(messages))
			}
		})
	}
}

func TestClear(t *testing.T) {
	for name, box := range mailboxes(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := box.Append(ctx, "hi"); err != nil {
				t.Fatalf("Append: %v", err)
			}
			if err := box.Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}

			n, err := box.Len(ctx)
			if err != nil {
				t.Fatalf("Len: %v", err)
			}
			if n != 0 {
				t.Fatalf("Len after Clear = %d", n)
			}
		})
	}
}

func TestEmptyMailbox(t *testing.T) {
	for name, box := range mailboxes(t) {
		t.Run(name, func(t *testing.T) {
			entries, err := box.Entries(context.Background())
			if err != nil {
				t.Fatalf("Entries: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("Entries = %v, want empty", entries)
			}
		})
	}
}

func TestSQLiteScopesByOwner(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	bob, err := NewSQLite(db, "Bob")
	if err != nil {
		t.Fatalf("NewSQLite(Bob): %v", err)
	}
	alice, err := NewSQLite(db, "Alice")
	if err != nil {
		t.Fatalf("NewSQLite(Alice): %v", err)
	}

	ctx := context.Background()
	if err := bob.Append(ctx, "for bob"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	n, err := alice.Len(ctx)
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 0 {
		t.Fatalf("Alice sees %d of Bob's entries", n)
	}
}

func TestNewSQLiteValidation(t *testing.T) {
	if _, err := NewSQLite(nil, "Bob"); err == nil {
		t.Fatal("expected an error for a nil db")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := NewSQLite(db, ""); err == nil {
		t.Fatal("expected an error for an empty owner")
	}
}
