package types

// Standard table names for Archive.GetTable.
const (
	RunsTable      = "runs"
	ChampionsTable = "champions"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	RunsTable,
	ChampionsTable,
}

// Filter keys understood by Fetch.
const (
	FilterState      = "state"      // string, runs
	FilterController = "controller" // string, runs
	FilterRunID      = "run_id"     // string, champions
	FilterLimit      = "limit"      // int
	FilterOffset     = "offset"     // int
)
