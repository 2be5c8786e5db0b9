package database

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/nerrad567/gridstore-core/migrations"
)

// testMigrationsFS holds two reversible migrations.
var testMigrationsFS = fstest.MapFS{
	"20261001_090000_create_notes.up.sql": &fstest.MapFile{
		Data: []byte("CREATE TABLE test_notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL);"),
	},
	"20261001_090000_create_notes.down.sql": &fstest.MapFile{
		Data: []byte("DROP TABLE test_notes;"),
	},
	"20261002_090000_create_tags.up.sql": &fstest.MapFile{
		Data: []byte("CREATE TABLE test_tags (name TEXT PRIMARY KEY);"),
	},
	"20261002_090000_create_tags.down.sql": &fstest.MapFile{
		Data: []byte("DROP TABLE test_tags;"),
	},
	"README.md": &fstest.MapFile{Data: []byte("ignored")},
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return count == 1
}

func appliedVersions(t *testing.T, db *DB, src fstest.MapFS) []string {
	t.Helper()
	status, err := db.Status(context.Background(), src)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	var out []string
	for _, s := range status {
		if s.Applied() {
			out = append(out, s.Version)
		}
	}
	return out
}

func TestMigrate(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, testMigrationsFS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, table := range []string{"test_notes", "test_tags"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s not created", table)
		}
	}
	if got := appliedVersions(t, db, testMigrationsFS); len(got) != 2 {
		t.Errorf("applied = %v, want both migrations", got)
	}

	if err := db.Migrate(ctx, testMigrationsFS); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrate_FailureKeepsEarlierMigrations(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	src := fstest.MapFS{
		"20261001_090000_create_notes.up.sql": testMigrationsFS["20261001_090000_create_notes.up.sql"],
		"20261002_090000_broken.up.sql":       &fstest.MapFile{Data: []byte("CREATE TABLE (;")},
	}
	if err := db.Migrate(context.Background(), src); err == nil {
		t.Fatal("Migrate() with a broken migration error = nil, want error")
	}
	got := appliedVersions(t, db, src)
	if len(got) != 1 || got[0] != "20261001_090000" {
		t.Errorf("applied = %v, want [20261001_090000]", got)
	}
}

func TestRollback(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx, testMigrationsFS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	m, err := db.Rollback(ctx, testMigrationsFS)
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if m == nil || m.Version != "20261002_090000" || m.Name != "create_tags" {
		t.Fatalf("Rollback() = %+v, want 20261002_090000 create_tags", m)
	}
	if tableExists(t, db, "test_tags") {
		t.Error("test_tags still exists after rollback")
	}
	if !tableExists(t, db, "test_notes") {
		t.Error("test_notes dropped by rolling back a later migration")
	}

	if _, err := db.Rollback(ctx, testMigrationsFS); err != nil {
		t.Fatalf("second Rollback() error = %v", err)
	}
	m, err = db.Rollback(ctx, testMigrationsFS)
	if err != nil || m != nil {
		t.Errorf("Rollback() with nothing applied = (%+v, %v), want (nil, nil)", m, err)
	}
}

func TestRollback_NoDownSQL(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	src := fstest.MapFS{
		"20261001_090000_create_notes.up.sql": testMigrationsFS["20261001_090000_create_notes.up.sql"],
	}
	ctx := context.Background()
	if err := db.Migrate(ctx, src); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := db.Rollback(ctx, src); err == nil {
		t.Error("Rollback() without down SQL error = nil, want error")
	}
	if !tableExists(t, db, "test_notes") {
		t.Error("test_notes dropped by a failed rollback")
	}
}

func TestMigrateNoMigrations(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx, nil); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
	if err := db.Migrate(ctx, fstest.MapFS{}); err != nil {
		t.Fatalf("Migrate() with empty filesystem error = %v", err)
	}
}

func TestMigrate_DownWithoutUp(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	src := fstest.MapFS{
		"20261001_090000_orphan.down.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
	}
	if err := db.Migrate(context.Background(), src); err == nil {
		t.Error("Migrate() with an orphan down file error = nil, want error")
	}
}

// TestMigrateEmbedded applies and reverts the shipped migrations.
func TestMigrateEmbedded(t *testing.T) {
	db, err := Open(Config{Path: MemoryPath})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO update_journal (id, kind, component_id, patch, diff, created_at)
		 VALUES ('j1', 'Line', 'L1', '{}', '{}', '2026-10-01T00:00:00Z')`)
	if err != nil {
		t.Fatalf("insert into update_journal error = %v", err)
	}

	if _, err := db.Rollback(ctx, migrations.FS); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if tableExists(t, db, "update_journal") {
		t.Error("update_journal should have been dropped")
	}
}

func TestStatus(t *testing.T) {
	db := openTestDB(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()
	status, err := db.Status(ctx, testMigrationsFS)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if len(status) != 2 {
		t.Fatalf("len(Status()) = %d, want 2", len(status))
	}
	for _, s := range status {
		if s.Applied() {
			t.Errorf("%s applied before Migrate", s.Version)
		}
	}
	if status[0].Version != "20261001_090000" || status[0].Name != "create_notes" {
		t.Errorf("status[0] = %+v, want 20261001_090000 create_notes", status[0])
	}

	before := time.Now().UTC().Truncate(time.Second)
	if err := db.Migrate(ctx, testMigrationsFS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	status, err = db.Status(ctx, testMigrationsFS)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	for _, s := range status {
		if s.AppliedAt.Before(before) {
			t.Errorf("%s AppliedAt = %v, want at or after %v", s.Version, s.AppliedAt, before)
		}
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantName    string
		wantUp      bool
		wantOk      bool
	}{
		{
			name:        "up migration",
			filename:    "20261001_120000_update_journal.up.sql",
			wantVersion: "20261001_120000",
			wantName:    "update_journal",
			wantUp:      true,
			wantOk:      true,
		},
		{
			name:        "down migration",
			filename:    "20261001_120000_update_journal.down.sql",
			wantVersion: "20261001_120000",
			wantName:    "update_journal",
			wantOk:      true,
		},
		{
			name:        "name with underscores",
			filename:    "20261015_080000_add_journal_index.up.sql",
			wantVersion: "20261015_080000",
			wantName:    "add_journal_index",
			wantUp:      true,
			wantOk:      true,
		},
		{name: "not sql file", filename: "readme.txt"},
		{name: "missing direction", filename: "20261001_120000_update_journal.sql"},
		{name: "invalid format", filename: "invalid.up.sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, name, up, ok := parseMigrationFilename(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || name != tt.wantName || up != tt.wantUp {
				t.Errorf("parseMigrationFilename(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.filename, version, name, up, tt.wantVersion, tt.wantName, tt.wantUp)
			}
		})
	}
}
