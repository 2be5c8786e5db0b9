// Package database provides SQLite connectivity for gridstore.
//
// The database holds the update journal only; the record store itself lives
// in memory and is rebuilt from uploads.
//
// Files open in WAL mode; MemoryPath gives a private in-memory database for
// tests and ephemeral runs. Schema migrations are read from an fs.FS (see
// the migrations package) and driven by "gridstore migrate".
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with an
// optional matching .down.sql, which Rollback runs.
package database
