package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/common"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/dbx"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
)

// sqlRepository holds the logic shared by the database/sql backends; only
// the statements differ.
type sqlRepository struct {
	db         dbx.DBTX
	insertStmt string
	selectStmt string
	now        func() time.Time
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx, r.insertStmt,
		user.ID, user.Username, user.Password, user.NoteID, user.Note, user.TaskChainID, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *sqlRepository) GetByTaskChainID(ctx context.Context, taskChainID string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.selectStmt, taskChainID).Scan(
		&user.ID, &user.Username, &user.Password, &user.NoteID, &user.Note, &user.TaskChainID, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
