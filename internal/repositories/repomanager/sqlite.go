package repomanager

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/dbx"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/users"
)

const sqliteDriver = "sqlite"

// SQLiteRepositoryManager vends SQLite-backed repositories, for single-node
// deployments that still want records to survive a restart.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Driver() string {
	return sqliteDriver
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3")
}
