package checks

import (
	"fmt"
	"sync"

	"crm-sync/core/database"
	"crm-sync/feature/sync/models"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DatabaseReport strictly types the result of a database schema check.
type DatabaseReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// SyncModels are the models whose tables the engine writes to.
var SyncModels = []any{&models.LinkRow{}, &models.ReferenceValue{}, &models.Entity{}}

// expectedColumns derives table -> columns from the gorm models.
func expectedColumns(db *gorm.DB, list []any) (map[string][]string, error) {
	cache := &sync.Map{}
	out := make(map[string][]string, len(list))
	for _, m := range list {
		s, err := schema.Parse(m, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		out[s.Table] = s.DBNames
	}
	return out, nil
}

// CheckDatabase verifies that every sync table carries the columns of its model.
func CheckDatabase(db *gorm.DB) (*DatabaseReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	expected, err := expectedColumns(db, SyncModels)
	if err != nil {
		return nil, err
	}
	missing, err := database.MissingColumns(db, expected)
	if err != nil {
		return nil, err
	}

	report := &DatabaseReport{Matched: true, Tables: make(map[string]TableReport, len(expected))}
	for table := range expected {
		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if cols := missing[table]; len(cols) > 0 {
			tbl.MissingColumns = cols
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}
	return report, nil
}
