// Package users persists the actors created by plant tasks so that the
// matching verify task can find them again by task chain id.
package users

import (
	"context"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
)

// Repository is the correlation store. GetByTaskChainID returns
// common.ErrorNotFound when nothing was stored for the chain; if a chain was
// stored more than once the newest record wins.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByTaskChainID(ctx context.Context, taskChainID string) (*models.User, error)
}
