package users

import (
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/dbx"
)

type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{
		db: db,
		insertStmt: `INSERT INTO notebook_users (id, username, password, note_id, note, task_chain_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 `,
		selectStmt: `SELECT id, username, password, note_id, note, task_chain_id, created_at FROM notebook_users
		 WHERE task_chain_id = ?
		 ORDER BY rowid DESC
		 LIMIT 1
		 `,
		now: time.Now,
	}}
}
