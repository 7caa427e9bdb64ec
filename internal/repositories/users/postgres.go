package users

import (
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/dbx"
)

type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{sqlRepository{
		db: db,
		insertStmt: `INSERT INTO notebook_users (id, username, password, note_id, note, task_chain_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `,
		selectStmt: `SELECT id, username, password, note_id, note, task_chain_id, created_at FROM notebook_users
		 WHERE task_chain_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `,
		now: time.Now,
	}}
}
