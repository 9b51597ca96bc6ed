package sqlite

// Schema DDL for all tables.
const (
	createRuns = `CREATE TABLE runs (
    run_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    seed TEXT NOT NULL,
    controller TEXT NOT NULL,
    params TEXT NOT NULL,
    state TEXT NOT NULL,
    generations INTEGER NOT NULL,
    best_score REAL NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT
);`

	createChampions = `CREATE TABLE champions (
    champion_id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    generation INTEGER NOT NULL,
    source TEXT NOT NULL,
    program TEXT NOT NULL,
    score REAL NOT NULL,
    scores TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxRunsState       = `CREATE INDEX idx_runs_state ON runs(state);`
	idxRunsStarted     = `CREATE INDEX idx_runs_started ON runs(started_at);`
	idxChampionsRun    = `CREATE INDEX idx_champions_run ON champions(run_id);`
	idxChampionsRunGen = `CREATE INDEX idx_champions_run_generation ON champions(run_id, generation);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createRuns,
	createChampions,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRunsState,
	idxRunsStarted,
	idxChampionsRun,
	idxChampionsRunGen,
}
