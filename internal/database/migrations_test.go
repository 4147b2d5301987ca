package database

import (
	"reflect"
	"testing"
	"testing/fstest"

	"restaurant-pos/migrations"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_catalog.sql": {Data: []byte("SELECT 1;")},
		"0001_tenants.sql": {Data: []byte("SELECT 1;")},
		"embed.go":         {Data: []byte("package migrations")},
		"README.md":        {Data: []byte("notes")},
	}

	got, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("migrationFiles() error = %v", err)
	}
	want := []string{"0001_tenants.sql", "0002_catalog.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("migrationFiles() = %v, want %v", got, want)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := migrationFiles(migrations.Files)
	if err != nil {
		t.Fatalf("migrationFiles() error = %v", err)
	}
	if len(files) < 3 {
		t.Fatalf("expected at least 3 embedded migrations, got %v", files)
	}
	if files[0] != "0001_tenants.sql" {
		t.Errorf("first migration = %s, want 0001_tenants.sql", files[0])
	}
}
