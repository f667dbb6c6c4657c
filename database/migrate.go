package database

import (
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

/*
Column Mismatch Report Usage:

ColumnReport lists database columns that aren't accounted for in the Go models backing
the catalog tables. Run it with:

	portfolio migrate --report

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: projects ---
Found 1 columns not accounted for in model:
  - legacy_tags

--- Table: skills ---
All columns are accounted for in the model.
*/

// catalogModels are the tables owned by the relational backend
func catalogModels() []interface{} {
	return []interface{}{&models.Project{}, &skillRow{}, &documentRow{}}
}

// Migrate creates or updates the catalog tables
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(catalogModels()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	return nil
}

// TableReport is the result of comparing one table against its model
type TableReport struct {
	Table      string
	Exists     bool
	Mismatches []string
}

// ColumnReport compares every catalog table's columns with its model
func ColumnReport(db *gorm.DB) ([]TableReport, error) {
	var reports []TableReport
	for _, model := range catalogModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("error parsing model %T: %w", model, err)
		}

		report := TableReport{Table: stmt.Schema.Table}
		dbColumns, err := getTableColumns(db, stmt.Schema.Table)
		if err != nil {
			if !strings.Contains(err.Error(), "does not exist") {
				return nil, err
			}
			reports = append(reports, report)
			continue
		}

		report.Exists = true
		report.Mismatches = findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		reports = append(reports, report)
	}
	return reports, nil
}

// PrintColumnReport writes the report in the human readable format shown above
func PrintColumnReport(reports []TableReport) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for _, report := range reports {
		fmt.Printf("\n--- Table: %s ---\n", report.Table)
		switch {
		case !report.Exists:
			fmt.Println("Table does not exist yet (will be created during migration)")
		case len(report.Mismatches) > 0:
			fmt.Printf("Found %d columns not accounted for in model:\n", len(report.Mismatches))
			for _, col := range report.Mismatches {
				fmt.Printf("  - %s\n", col)
			}
			totalMismatches += len(report.Mismatches)
		default:
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`

	err := db.Raw(query, tableName).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}

	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
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
