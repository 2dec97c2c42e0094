package store

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLiteStore keeps records in a single key/value table
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database file at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite store %q", path)
	}
	// An in-memory database lives on one connection
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v BLOB
	)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create kv table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var val []byte
	err := s.db.QueryRow("SELECT v FROM kv WHERE k = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(ErrNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	return val, nil
}

func (s *SQLiteStore) Put(key string, val []byte) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO kv (k, v) VALUES (?, ?)", key, val)
	return errors.Wrapf(err, "put %s", key)
}

func (s *SQLiteStore) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT k FROM kv WHERE substr(k, 1, ?) = ? ORDER BY k", len(prefix), prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", prefix)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrapf(err, "list %s", prefix)
		}
		keys = append(keys, k)
	}
	return keys, errors.Wrapf(rows.Err(), "list %s", prefix)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
