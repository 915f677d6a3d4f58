package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as fields in the corresponding Go model structs.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: contacts ---
Found 1 columns not accounted for in model:
  - updated_at

--- Table: tags ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// GenerateModels migrates the schema and writes typed query helpers for
// Contact and Tag into outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	migrateDB := db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Contact{}, Tag{})

	fmt.Println("Migrating models...")
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	fmt.Println("Database migration completed successfully!")

	if _, err := WriteColumnMismatchReport(db, os.Stdout); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// ColumnMismatch lists the columns of one table that no model field maps to.
type ColumnMismatch struct {
	Table   string
	Missing []string
	Exists  bool
}

// FindColumnMismatches compares every persisted model with its table.
func FindColumnMismatches(db *gorm.DB) ([]ColumnMismatch, error) {
	cache := &sync.Map{}
	var report []ColumnMismatch

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		entry := ColumnMismatch{Table: s.Table}
		if !db.Migrator().HasTable(s.Table) {
			report = append(report, entry)
			continue
		}
		entry.Exists = true

		columnTypes, err := db.Migrator().ColumnTypes(s.Table)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", s.Table, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		entry.Missing = findColumnMismatches(dbColumns, s.DBNames)
		report = append(report, entry)
	}

	sort.Slice(report, func(i, j int) bool { return report[i].Table < report[j].Table })
	return report, nil
}

// WriteColumnMismatchReport prints the report and returns the total number of
// unmapped columns.
func WriteColumnMismatchReport(db *gorm.DB, w io.Writer) (int, error) {
	report, err := FindColumnMismatches(db)
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")
	total := 0
	for _, entry := range report {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", entry.Table)
		switch {
		case !entry.Exists:
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
		case len(entry.Missing) > 0:
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(entry.Missing))
			for _, col := range entry.Missing {
				fmt.Fprintf(w, "  - %s\n", col)
			}
			total += len(entry.Missing)
		default:
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		}
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
