// Package repomanager picks the correlation store backend, opens it and
// applies the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/common"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/dbx"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/users"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type RepositoryManager interface {
	// Driver is the database/sql driver name.
	Driver() string
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// openDB is a seam for tests.
var openDB = dbx.Open

// Store is an opened correlation store.
type Store struct {
	Users users.Repository
	db    *sql.DB
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRepositoryManager returns the manager for a SQL backend.
func NewRepositoryManager(backend string) (RepositoryManager, error) {
	switch backend {
	case BackendPostgres:
		return &PostgresRepositoryManager{}, nil
	case BackendSQLite:
		return &SQLiteRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("%w: store %q", common.ErrUnknownBackend, backend)
	}
}

// Open connects to the configured backend and migrates it. The memory
// backend ignores dsn.
func Open(ctx context.Context, backend, dsn string) (*Store, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" || backend == BackendMemory {
		return &Store{Users: users.NewInMemoryRepository()}, nil
	}

	m, err := NewRepositoryManager(backend)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("store %q needs a database dsn", backend)
	}

	db, err := openDB(ctx, m.Driver(), dsn)
	if err != nil {
		return nil, err
	}
	if m.Driver() == sqliteDriver {
		db.SetMaxOpenConns(1)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{Users: m.Users(db), db: db}, nil
}
