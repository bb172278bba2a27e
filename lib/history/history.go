// Package history records submissions made through the CLI in a local
// sqlite database.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    judge TEXT NOT NULL,
    problem_url TEXT NOT NULL,
    language TEXT NOT NULL,
    result_url TEXT NOT NULL,
    submitted_at INTEGER NOT NULL
);
`

type Store struct {
	db *sql.DB
}

// Open opens (and creates, when missing) the history database at path.
// ":memory:" is accepted for tests.
func Open(path string) (Store, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			return Store{}, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	// sqlite tolerates exactly one writer; see
	// https://stackoverflow.com/questions/35804884
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return Store{}, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return Store{}, err
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type Entry struct {
	Judge       string
	ProblemURL  string
	Language    string
	ResultURL   string
	SubmittedAt time.Time
}

func (s Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (judge, problem_url, language, result_url, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Judge, e.ProblemURL, e.Language, e.ResultURL, e.SubmittedAt.Unix(),
	)
	return err
}

// List returns every recorded submission, most recent first.
func (s Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT judge, problem_url, language, result_url, submitted_at
		 FROM submissions ORDER BY submitted_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var unix int64
		err = rows.Scan(&e.Judge, &e.ProblemURL, &e.Language, &e.ResultURL, &unix)
		if err != nil {
			return nil, err
		}
		e.SubmittedAt = time.Unix(unix, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
