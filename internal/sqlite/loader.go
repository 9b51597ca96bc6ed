package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// jsonlTableMapping maps JSONL files to their SQLite tables and columns.
// Tables with foreign keys load after the tables they reference. Columns in
// jsonColumns hold JSON documents and are stored as their JSON text.
var jsonlTableMapping = []struct {
	file        string
	table       string
	columns     []string
	jsonColumns map[string]bool
}{
	{
		file:        runsJSONL,
		table:       "runs",
		columns:     []string{"run_id", "name", "seed", "controller", "params", "state", "generations", "best_score", "started_at", "finished_at"},
		jsonColumns: map[string]bool{"params": true},
	},
	{
		file:        championsJSONL,
		table:       "champions",
		columns:     []string{"champion_id", "run_id", "generation", "source", "program", "score", "scores", "created_at"},
		jsonColumns: map[string]bool{"program": true, "scores": true},
	},
}

// loadAllJSONL reads each JSONL file from dataDir and inserts its records
// into the corresponding SQLite table inside one transaction. Malformed
// lines and records that violate constraints are skipped; unknown fields
// are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, mapping.jsonColumns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	// Foreign keys are off while loading; drop champions of unknown runs.
	if _, err := tx.Exec("DELETE FROM champions WHERE run_id NOT IN (SELECT run_id FROM runs)"); err != nil {
		return fmt.Errorf("dropping orphan champions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only the
// listed columns are extracted.
func insertRecords(tx *sql.Tx, table string, columns []string, jsonColumns map[string]bool, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			raw, ok := obj[col]
			if !ok || string(raw) == "null" {
				args[i] = nil
				continue
			}
			if jsonColumns[col] {
				args[i] = string(raw)
				continue
			}
			var val any
			if err := json.Unmarshal(raw, &val); err != nil {
				args[i] = nil
				continue
			}
			args[i] = val
		}

		if _, err := stmt.Exec(args...); err != nil {
			// Constraint violations skip the record.
			continue
		}
	}

	return nil
}
