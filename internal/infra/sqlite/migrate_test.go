package sqlite_test

import (
	"testing"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/sqlite"
)

func TestMigrateUp_CreatesSchema(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	for _, table := range []string{
		"user", "jwt_token_blocklist", "ll_model", "bot", "chat_room", "chat_history",
	} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing after migration: %v", table, err)
		}
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp failed: %v", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("second MigrateUp failed: %v", err)
	}

	v1, err := sqlite.MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion failed: %v", err)
	}
	if v1 < 1 {
		t.Errorf("expected version >= 1 after migrating, got %d", v1)
	}
}

func TestMigrationVersion_FreshDB_Zero(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	v, err := sqlite.MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("expected version 0 on fresh database, got %d", v)
	}
}

func TestMigrateUp_ForeignKeysEnforced(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	// bot.model_id references ll_model; inserting against a missing model
	// must be rejected.
	_, err := db.Exec("INSERT INTO bot (model_id, name) VALUES (999, 'orphan')")
	if err == nil {
		t.Error("expected FK violation inserting bot with missing model")
	}
}
