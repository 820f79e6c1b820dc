package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/url"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/limbo/bloom/pkg/cleanup"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// SQLiteKV keeps the whole persisted state of the app in one local file:
// a single key/value table of JSON blobs. Durable across restarts on the
// same machine, bounded by local disk, never synced anywhere.
type SQLiteKV struct {
	db *sql.DB
}

func NewSQLiteKV(path string) *SQLiteKV {
	db, err := openLocalDB(path)
	if err != nil {
		log.Fatal("opening local store error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing local store",
		F:    db.Close,
	})
	return &SQLiteKV{
		db: db,
	}
}

// NewSQLiteKVWithDB wraps an already opened database. Used by tests.
func NewSQLiteKVWithDB(db *sql.DB) *SQLiteKV {
	if _, err := db.Exec(kvSchema); err != nil {
		log.Fatal("preparing local store schema error: " + err.Error())
	}
	return &SQLiteKV{
		db: db,
	}
}

func openLocalDB(path string) (*sql.DB, error) {
	params := url.Values{}
	// WAL keeps readers from blocking the single writer
	params.Add("_journal_mode", "WAL")
	db, err := sql.Open("sqlite3", path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err = db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.New("reading key error: " + err.Error())
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		key, value,
	)
	if err != nil {
		// Failed writes must stay visible to the caller: a swallowed error
		// here would silently lose a journal entry
		return errors.New("writing key error: " + err.Error())
	}
	return nil
}

func (s *SQLiteKV) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, key)
	if err != nil {
		return errors.New("removing key error: " + err.Error())
	}
	return nil
}
