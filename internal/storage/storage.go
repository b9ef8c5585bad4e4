// Package storage provides persistent storage for the chain indexing core,
// backed by SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/weave-gw/chain-index-core/internal/config"
	"github.com/weave-gw/chain-index-core/pkg/logging"
)

// Storage provides persistent, two-tier storage for blocks and
// transactions. All writes go through a single *sql.DB with exactly one
// open connection, since SQLite allows only one writer at a time; reads
// share that same connection.
type Storage struct {
	db       *sql.DB
	dbPath   string
	stmts    *statements
	tunables config.TunablesConfig
	log      *logging.Logger

	mu sync.RWMutex
}

// New opens (and if necessary creates) the SQLite database under
// cfg.Storage.DataDir, applies the schema, and prepares the statement
// catalog. cfg.Tunables controls stabilization cadence and fork depth;
// tests set it directly to exercise stabilization without real chain
// depth.
func New(cfg *config.Config, log *logging.Logger) (*Storage, error) {
	dataDir := config.ExpandPath(cfg.Storage.DataDir)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chain-index.db")

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=off")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1) // sqlite3 supports only one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Storage{
		db:       db,
		dbPath:   dbPath,
		tunables: cfg.Tunables.WithDefaults(),
		log:      log,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	stmts, err := prepareStatements(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	s.stmts = stmts

	return s, nil
}

// Close releases the prepared statement catalog and the database handle.
func (s *Storage) Close() error {
	if err := s.stmts.Close(); err != nil {
		s.db.Close()
		return fmt.Errorf("failed to close prepared statements: %w", err)
	}
	return s.db.Close()
}

// DB returns the underlying database connection. Exported for debug
// tooling and migrations; ordinary callers should use Storage's methods.
func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) initSchema() error {
	_, err := s.db.Exec(schema)
	return err
}

func nowUnix() int64 {
	return time.Now().Unix()
}
