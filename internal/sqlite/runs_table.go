package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/lander/pkg/types"
)

var _ types.Table = (*runsTable)(nil)

// runsTable implements the Table interface for evolution runs. Every
// mutation rewrites runs.jsonl atomically.
type runsTable struct {
	backend *Backend
}

const runColumns = "run_id, name, seed, controller, params, state, generations, best_score, started_at, finished_at"

// Get retrieves a run by ID.
func (rt *runsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	rt.backend.mu.RLock()
	defer rt.backend.mu.RUnlock()
	if !rt.backend.attached {
		return nil, types.ErrArchiveDetached
	}

	row := rt.backend.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", id)
	run, err := hydrateRun(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}
	return run, nil
}

// Set creates or updates a run. When id is empty a UUID v7 is generated,
// the state defaults to running and StartedAt to now.
func (rt *runsTable) Set(id string, data any) (string, error) {
	run, ok := data.(*types.Run)
	if !ok || run == nil {
		return "", types.ErrInvalidData
	}
	if !types.ValidController(run.Controller) || !finite(run.BestScore) {
		return "", types.ErrInvalidData
	}

	rt.backend.mu.Lock()
	defer rt.backend.mu.Unlock()
	if !rt.backend.attached {
		return "", types.ErrArchiveDetached
	}

	if id == "" {
		newID, err := generateUUID()
		if err != nil {
			return "", err
		}
		id = newID
	}
	run.RunID = id
	if run.State == "" {
		run.State = types.RunStateRunning
	}
	if err := run.SetState(run.State); err != nil {
		return "", err
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC().Truncate(time.Second)
	}

	params := run.Params
	if params == nil {
		params = map[string]any{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("%w: params: %v", types.ErrInvalidData, err)
	}

	exists, err := rt.backend.exists("runs", "run_id", id)
	if err != nil {
		return "", err
	}

	args := []any{
		run.Name, strconv.FormatUint(run.Seed, 10), run.Controller, string(paramsJSON),
		run.State, run.Generations, run.BestScore, formatTime(run.StartedAt), nullTime(run.FinishedAt),
	}
	if exists {
		_, err = rt.backend.db.Exec(
			`UPDATE runs SET name = ?, seed = ?, controller = ?, params = ?, state = ?,
			generations = ?, best_score = ?, started_at = ?, finished_at = ? WHERE run_id = ?`,
			append(args, id)...,
		)
	} else {
		_, err = rt.backend.db.Exec(
			"INSERT INTO runs ("+runColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			append([]any{id}, args...)...,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting run: %w", err)
	}

	if err := rt.backend.persistRunsJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", runsJSONL, err)
	}
	return id, nil
}

// Delete removes a run and its champions.
func (rt *runsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	rt.backend.mu.Lock()
	defer rt.backend.mu.Unlock()
	if !rt.backend.attached {
		return types.ErrArchiveDetached
	}

	exists, err := rt.backend.exists("runs", "run_id", id)
	if err != nil {
		return err
	}
	if !exists {
		return types.ErrNotFound
	}

	tx, err := rt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM champions WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("deleting run champions: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run deletion: %w", err)
	}

	if err := rt.backend.persistRunsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", runsJSONL, err)
	}
	if err := rt.backend.persistChampionsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", championsJSONL, err)
	}
	return nil
}

// Fetch returns runs ordered by started_at DESC. Supported filters are
// state, controller, limit and offset.
func (rt *runsTable) Fetch(filter map[string]any) ([]any, error) {
	var conditions []string
	var args []any

	for _, key := range []string{types.FilterState, types.FilterController} {
		v, ok, err := filterString(filter, key)
		if err != nil {
			return nil, err
		}
		if ok {
			conditions = append(conditions, key+" = ?")
			args = append(args, v)
		}
	}
	page, err := limitOffset(filter)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC, run_id DESC" + page

	rt.backend.mu.RLock()
	defer rt.backend.mu.RUnlock()
	if !rt.backend.attached {
		return nil, types.ErrArchiveDetached
	}

	rows, err := rt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching runs: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		run, err := hydrateRun(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating run: %w", err)
		}
		results = append(results, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return results, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateRun(row scanner) (*types.Run, error) {
	var (
		run        types.Run
		seed       string
		params     string
		startedAt  string
		finishedAt sql.NullString
	)
	err := row.Scan(&run.RunID, &run.Name, &seed, &run.Controller, &params,
		&run.State, &run.Generations, &run.BestScore, &startedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = parseTime(finishedAt.String); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}
	return &run, nil
}

// persistRunsJSONL rewrites runs.jsonl from the runs table.
func (b *Backend) persistRunsJSONL() error {
	rows, err := b.db.Query("SELECT " + runColumns + " FROM runs ORDER BY started_at ASC, run_id ASC")
	if err != nil {
		return fmt.Errorf("querying runs for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var (
			rec        runJSON
			params     string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&rec.RunID, &rec.Name, &rec.Seed, &rec.Controller, &params,
			&rec.State, &rec.Generations, &rec.BestScore, &rec.StartedAt, &finishedAt); err != nil {
			return fmt.Errorf("scanning run for JSONL: %w", err)
		}
		rec.Params = json.RawMessage(params)
		if finishedAt.Valid {
			rec.FinishedAt = &finishedAt.String
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling run for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating runs for JSONL: %w", err)
	}

	return writeJSONL(b.jsonlPath(runsJSONL), records)
}
