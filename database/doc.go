// Package database opens the storage backend named in configuration.
//
// Three backends implement tinyweb.Storage:
//
//   - filesystem: a directory on disk, written through os.Root
//   - sqlite: one row per file in a SQLite table (modernc.org/sqlite)
//   - postgres: one row per file in a PostgreSQL table (pgx connection pool)
//
// # Usage
//
//	cfg := database.Config{
//	    Type:     "sqlite",
//	    DSN:      "tinyweb.db",
//	    Table:    "tinyweb_files",
//	    Capacity: 1 << 20,
//	}
//
//	storage, cleanup, err := database.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// For the SQL backends Open pings the database, runs the table migration and
// validates the resulting schema before returning.
package database
