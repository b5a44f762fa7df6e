package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/rolecall/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)",
		1, "Alice", "alice@example.com", "admin",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)",
		2, "Bob", "bob@example.com", "owner",
	)
	if err == nil {
		t.Fatal("expected role check constraint to reject an unknown role")
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 migration record, got %d", count)
	}
}

func TestPending(t *testing.T) {
	all, err := migrations.Pending(nil)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	done := map[string]bool{}
	for _, name := range all {
		done[name] = true
	}
	rest, err := migrations.Pending(done)
	if err != nil {
		t.Fatalf("Pending with all applied: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("expected nothing pending, got %v", rest)
	}
}
