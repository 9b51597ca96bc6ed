package sqlite

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/lander/pkg/types"
)

// Shared helpers for the table accessors.

// formatTime renders t the way it is stored in SQLite and JSONL.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// parseTime parses a stored timestamp. Empty strings yield the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// filterString extracts an optional string filter value.
func filterString(filter map[string]any, key string) (string, bool, error) {
	v, ok := filter[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, types.ErrInvalidFilter
	}
	return s, true, nil
}

// limitOffset renders the LIMIT and OFFSET clauses requested by filter.
// Non-positive values are ignored.
func limitOffset(filter map[string]any) (string, error) {
	var clause string
	limit := -1
	if v, ok := filter[types.FilterLimit]; ok {
		n, ok := v.(int)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if n > 0 {
			limit = n
		}
	}
	if v, ok := filter[types.FilterOffset]; ok {
		n, ok := v.(int)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if n > 0 {
			// SQLite requires a LIMIT before OFFSET; -1 means no limit.
			clause = fmt.Sprintf(" LIMIT %d OFFSET %d", limit, n)
			return clause, nil
		}
	}
	if limit > 0 {
		clause = fmt.Sprintf(" LIMIT %d", limit)
	}
	return clause, nil
}

// exists reports whether a row with the given key exists in table.
func (b *Backend) exists(table, column, id string) (bool, error) {
	var one int
	err := b.db.QueryRow(
		fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ?", table, column), id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s existence: %w", table, err)
	}
	return true, nil
}

// jsonlPath returns the path of a JSONL file in the data directory.
func (b *Backend) jsonlPath(name string) string {
	return filepath.Join(b.config.DataDir, name)
}
