package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/xavierca1/ligue-crm/internal/infra/memory"
)

const (
	bucketCustomers = "customers"
	bucketLeads     = "leads"
	bucketUsers     = "users"
	bucketSequences = "sequences"
)

var buckets = []string{bucketCustomers, bucketLeads, bucketUsers, bucketSequences}

// SQLiteStore keeps memory.Snapshot values in a single SQLite table, one JSON
// blob per bucket.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "ligue-crm.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, errors.Wrap(err, "create dirs")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create state table")
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Load returns the saved snapshot. ok is false when nothing was saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (snap memory.Snapshot, ok bool, err error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return snap, false, errors.Wrap(err, "select state")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return snap, false, errors.Wrap(err, "scan")
		}

		var target any
		switch bucket {
		case bucketCustomers:
			target = &snap.Customers
		case bucketLeads:
			target = &snap.Leads
		case bucketUsers:
			target = &snap.Users
		case bucketSequences:
			target = &snap.Sequences
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return snap, false, errors.Wrapf(err, "decode %s", bucket)
		}
		ok = true
	}
	if err := rows.Err(); err != nil {
		return snap, false, errors.Wrap(err, "iterate state")
	}
	return snap, ok, nil
}

// Save replaces every bucket inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap memory.Snapshot) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range buckets {
		var data []byte
		switch bucket {
		case bucketCustomers:
			data, err = json.Marshal(snap.Customers)
		case bucketLeads:
			data, err = json.Marshal(snap.Leads)
		case bucketUsers:
			data, err = json.Marshal(snap.Users)
		case bucketSequences:
			data, err = json.Marshal(snap.Sequences)
		}
		if err != nil {
			return errors.Wrapf(err, "encode %s", bucket)
		}
		if _, err = tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			return errors.Wrapf(err, "upsert %s", bucket)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error { return s.db.Close() }
