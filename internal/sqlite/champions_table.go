package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/lander/pkg/types"
)

var _ types.Table = (*championsTable)(nil)

// championsTable implements the Table interface for run champions. Every
// mutation rewrites champions.jsonl atomically.
type championsTable struct {
	backend *Backend
}

const championColumns = "champion_id, run_id, generation, source, program, score, scores, created_at"

// Get retrieves a champion by ID.
func (ct *championsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	ct.backend.mu.RLock()
	defer ct.backend.mu.RUnlock()
	if !ct.backend.attached {
		return nil, types.ErrArchiveDetached
	}

	row := ct.backend.db.QueryRow("SELECT "+championColumns+" FROM champions WHERE champion_id = ?", id)
	champion, err := hydrateChampion(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting champion %s: %w", id, err)
	}
	return champion, nil
}

// Set creates or updates a champion. The referenced run must exist.
func (ct *championsTable) Set(id string, data any) (string, error) {
	champion, ok := data.(*types.Champion)
	if !ok || champion == nil {
		return "", types.ErrInvalidData
	}
	if err := champion.Validate(); err != nil {
		return "", err
	}
	if !finite(champion.Score) {
		return "", types.ErrInvalidData
	}
	for _, s := range champion.Scores {
		if !finite(s.Value) {
			return "", types.ErrInvalidData
		}
	}

	ct.backend.mu.Lock()
	defer ct.backend.mu.Unlock()
	if !ct.backend.attached {
		return "", types.ErrArchiveDetached
	}

	runExists, err := ct.backend.exists("runs", "run_id", champion.RunID)
	if err != nil {
		return "", err
	}
	if !runExists {
		return "", fmt.Errorf("%w: unknown run %s", types.ErrInvalidData, champion.RunID)
	}

	if id == "" {
		newID, err := generateUUID()
		if err != nil {
			return "", err
		}
		id = newID
	}
	champion.ChampionID = id
	if champion.CreatedAt.IsZero() {
		champion.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	scores := champion.Scores
	if scores == nil {
		scores = []types.ScoreComponent{}
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return "", fmt.Errorf("%w: scores: %v", types.ErrInvalidData, err)
	}

	exists, err := ct.backend.exists("champions", "champion_id", id)
	if err != nil {
		return "", err
	}

	args := []any{
		champion.RunID, champion.Generation, champion.Source, string(champion.Program),
		champion.Score, string(scoresJSON), formatTime(champion.CreatedAt),
	}
	if exists {
		_, err = ct.backend.db.Exec(
			`UPDATE champions SET run_id = ?, generation = ?, source = ?, program = ?,
			score = ?, scores = ?, created_at = ? WHERE champion_id = ?`,
			append(args, id)...,
		)
	} else {
		_, err = ct.backend.db.Exec(
			"INSERT INTO champions ("+championColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			append([]any{id}, args...)...,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting champion: %w", err)
	}

	if err := ct.backend.persistChampionsJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", championsJSONL, err)
	}
	return id, nil
}

// Delete removes a champion.
func (ct *championsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	ct.backend.mu.Lock()
	defer ct.backend.mu.Unlock()
	if !ct.backend.attached {
		return types.ErrArchiveDetached
	}

	res, err := ct.backend.db.Exec("DELETE FROM champions WHERE champion_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting champion: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrNotFound
	}

	if err := ct.backend.persistChampionsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", championsJSONL, err)
	}
	return nil
}

// Fetch returns champions in the order they were found. Supported filters
// are run_id, limit and offset.
func (ct *championsTable) Fetch(filter map[string]any) ([]any, error) {
	var conditions []string
	var args []any

	runID, ok, err := filterString(filter, types.FilterRunID)
	if err != nil {
		return nil, err
	}
	if ok {
		conditions = append(conditions, "run_id = ?")
		args = append(args, runID)
	}
	page, err := limitOffset(filter)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + championColumns + " FROM champions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY generation ASC, created_at ASC, champion_id ASC" + page

	ct.backend.mu.RLock()
	defer ct.backend.mu.RUnlock()
	if !ct.backend.attached {
		return nil, types.ErrArchiveDetached
	}

	rows, err := ct.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching champions: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		champion, err := hydrateChampion(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating champion: %w", err)
		}
		results = append(results, champion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating champions: %w", err)
	}
	return results, nil
}

func hydrateChampion(row scanner) (*types.Champion, error) {
	var (
		c         types.Champion
		program   string
		scores    string
		createdAt string
	)
	err := row.Scan(&c.ChampionID, &c.RunID, &c.Generation, &c.Source, &program,
		&c.Score, &scores, &createdAt)
	if err != nil {
		return nil, err
	}

	c.Program = json.RawMessage(program)
	if err := json.Unmarshal([]byte(scores), &c.Scores); err != nil {
		return nil, fmt.Errorf("parsing scores: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}

// persistChampionsJSONL rewrites champions.jsonl from the champions table.
func (b *Backend) persistChampionsJSONL() error {
	rows, err := b.db.Query("SELECT " + championColumns + " FROM champions ORDER BY run_id ASC, generation ASC, champion_id ASC")
	if err != nil {
		return fmt.Errorf("querying champions for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var (
			rec     championJSON
			program string
			scores  string
		)
		if err := rows.Scan(&rec.ChampionID, &rec.RunID, &rec.Generation, &rec.Source,
			&program, &rec.Score, &scores, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning champion for JSONL: %w", err)
		}
		rec.Program = json.RawMessage(program)
		rec.Scores = json.RawMessage(scores)
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling champion for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating champions for JSONL: %w", err)
	}

	return writeJSONL(b.jsonlPath(championsJSONL), records)
}
