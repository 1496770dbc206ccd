package database

import (
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "meal-planner.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"foods", "search_runs"} {
		var name string
		err := db.SQL.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "meal-planner.db")

	if err := RunMigrations(dbPath); err != nil {
		t.Fatalf("First migration run failed: %v", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to open migrated database: %v", err)
	}
	defer db.Close()

	if _, err := db.SQL.Exec(
		"INSERT INTO foods (category, name, kcal, carb, protein, fat, created_at) VALUES ('rice', '흰쌀밥', 300, 65, 5, 1, CURRENT_TIMESTAMP)",
	); err != nil {
		t.Fatalf("Failed to insert into foods: %v", err)
	}
	if _, err := db.SQL.Exec(
		"INSERT INTO foods (category, name, kcal, carb, protein, fat, created_at) VALUES ('rice', '흰쌀밥', 300, 65, 5, 1, CURRENT_TIMESTAMP)",
	); err == nil {
		t.Error("Expected duplicate (category, name) to be rejected")
	}
}
