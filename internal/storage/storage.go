package storage

// Package storage is the local durable store: a two-key blob table backed by
// SQLite. The database is created on first use. If opening the DB or
// executing statements fails, the store degrades to in-memory only, so no
// storage failure is ever fatal.

import (
	"database/sql"
	"errors"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/abys-ai/abys-go/internal/logger"
)

// Fixed keys for the two persisted blobs.
const (
	UserKey     = "nexus_user"
	SessionsKey = "nexus_sessions"
)

// Store is a small key-value blob store scoped to the local device.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	mem map[string]string
}

// Open opens or creates the blob database at the given path. It never
// fails: on any error the returned store is memory-backed.
func Open(path string) *Store {
	s := &Store{mem: make(map[string]string)}
	if path == "" {
		path = "abys.db"
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000")
	if err != nil {
		logger.L.Warn("sqlite open failed; using in-memory storage", "error", err)
		return s
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`); err != nil {
		logger.L.Warn("sqlite table creation failed; using in-memory storage", "error", err)
		db.Close()
		return s
	}
	s.db = db
	return s
}

// Put writes a blob under the given key, keeping an in-memory copy as
// fallback.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[key] = value
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`INSERT INTO blobs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, value); err != nil {
		logger.L.Error("failed to store blob; keeping in-memory copy", "key", key, "error", err)
	}
}

// Get returns the blob stored under the given key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		var v string
		err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?;`, key).Scan(&v)
		switch {
		case err == nil:
			return v, true
		case errors.Is(err, sql.ErrNoRows):
			return "", false
		default:
			logger.L.Warn("blob read failed; falling back to memory", "key", key, "error", err)
		}
	}
	v, ok := s.mem[key]
	return v, ok
}

// Delete removes the blob stored under the given key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mem, key)
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM blobs WHERE key = ?;`, key); err != nil {
		logger.L.Error("failed to delete blob", "key", key, "error", err)
	}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
