// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either a MySQL connection (production) or a SQLite database
// (local runs and tests) based on the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the sync feature verify that the link, reference value
// and entity tables carry the columns it expects before a run starts.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "sync_links")
package database
