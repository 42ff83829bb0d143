package collector

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/shpn/petri"
	"github.com/pflow-xyz/shpn/sim"
)

// SQLiteSink is the optional persistent sink wired from the teacher's own
// modernc.org/sqlite dependency (SPEC_FULL §11): it implements the same
// sim.Observer shape as Collector but appends rows to a sqlite database
// instead of in-memory series, so a long run can be queried after the
// process exits.
type SQLiteSink struct {
	db  *sql.DB
	net *petri.Net
}

// OpenSQLiteSink opens (creating if necessary) a sqlite database at path
// and prepares its schema.
func OpenSQLiteSink(path string, net *petri.Net) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("collector: open sqlite sink: %w", err)
	}
	schema := `
		CREATE TABLE IF NOT EXISTS place_marking (
			time REAL NOT NULL,
			place TEXT NOT NULL,
			tokens REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS transition_fired (
			time REAL NOT NULL,
			transition TEXT NOT NULL,
			burst INTEGER NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("collector: create sqlite schema: %w", err)
	}
	return &SQLiteSink{db: db, net: net}, nil
}

// OnStep implements sim.Observer.
func (s *SQLiteSink) OnStep(o sim.StepOutcome) {
	for _, p := range s.net.Places() {
		_, _ = s.db.Exec(`INSERT INTO place_marking (time, place, tokens) VALUES (?, ?, ?)`, o.Time, p.Name, p.Tokens)
	}
	if o.FiredTransition != nil {
		_, _ = s.db.Exec(`INSERT INTO transition_fired (time, transition, burst) VALUES (?, ?, ?)`, o.Time, o.FiredTransition.Name, o.Burst)
	}
}

// Close closes the underlying database connection.
func (s *SQLiteSink) Close() error { return s.db.Close() }
