// Package indexdb maintains a queryable sqlite index over simulation runs:
// one row per applied step and one row per archived contract. All writes go
// through a single writer goroutine so callers never contend on the
// connection.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS steps (
	revision     INTEGER PRIMARY KEY,
	day          INTEGER NOT NULL,
	command_id   TEXT NOT NULL,
	command_type TEXT NOT NULL,
	state_digest TEXT NOT NULL,
	recorded_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS steps_day ON steps(day);

CREATE TABLE IF NOT EXISTS archive (
	contract_id TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	fee         INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	closed_day  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS archive_day ON archive(closed_day);
`

type StepRow struct {
	Revision    uint64
	Day         int
	CommandID   string
	CommandType string
	StateDigest string
}

type ArchiveRow struct {
	ContractID string
	Title      string
	Fee        int64
	Outcome    string
	ClosedDay  int
}

type writeReq struct {
	fn   func(*sql.DB) error
	done chan error
}

// DB wraps the sqlite handle. Reads run directly; writes are serialized
// through the writer goroutine.
type DB struct {
	db     *sql.DB
	reqs   chan writeReq
	closed chan struct{}
}

// Open creates or opens the index at path and starts the writer.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply index schema: %w", err)
	}
	d := &DB{db: db, reqs: make(chan writeReq, 64), closed: make(chan struct{})}
	go d.writer()
	return d, nil
}

func (d *DB) writer() {
	defer close(d.closed)
	for req := range d.reqs {
		req.done <- req.fn(d.db)
	}
}

func (d *DB) submit(fn func(*sql.DB) error) error {
	req := writeReq{fn: fn, done: make(chan error, 1)}
	d.reqs <- req
	return <-req.done
}

// RecordStep indexes one applied command.
func (d *DB) RecordStep(row StepRow) error {
	return d.submit(func(db *sql.DB) error {
		_, err := db.Exec(
			`INSERT OR REPLACE INTO steps (revision, day, command_id, command_type, state_digest, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			row.Revision, row.Day, row.CommandID, row.CommandType, row.StateDigest, time.Now().Unix(),
		)
		return err
	})
}

// RecordArchive indexes one archived contract.
func (d *DB) RecordArchive(row ArchiveRow) error {
	return d.submit(func(db *sql.DB) error {
		_, err := db.Exec(
			`INSERT OR REPLACE INTO archive (contract_id, title, fee, outcome, closed_day)
			 VALUES (?, ?, ?, ?, ?)`,
			row.ContractID, row.Title, row.Fee, row.Outcome, row.ClosedDay,
		)
		return err
	})
}

// StepsForDay returns the indexed steps applied on the given day, in
// revision order.
func (d *DB) StepsForDay(day int) ([]StepRow, error) {
	rows, err := d.db.Query(
		`SELECT revision, day, command_id, command_type, state_digest
		 FROM steps WHERE day = ? ORDER BY revision`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StepRow
	for rows.Next() {
		var r StepRow
		if err := rows.Scan(&r.Revision, &r.Day, &r.CommandID, &r.CommandType, &r.StateDigest); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ArchiveSince returns archived contracts closed on or after day, oldest
// first.
func (d *DB) ArchiveSince(day int) ([]ArchiveRow, error) {
	rows, err := d.db.Query(
		`SELECT contract_id, title, fee, outcome, closed_day
		 FROM archive WHERE closed_day >= ? ORDER BY closed_day, contract_id`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ArchiveRow
	for rows.Next() {
		var r ArchiveRow
		if err := rows.Scan(&r.ContractID, &r.Title, &r.Fee, &r.Outcome, &r.ClosedDay); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StepCount returns the number of indexed steps.
func (d *DB) StepCount() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM steps`).Scan(&n)
	return n, err
}

// Close stops the writer and closes the database.
func (d *DB) Close() error {
	close(d.reqs)
	<-d.closed
	return d.db.Close()
}
