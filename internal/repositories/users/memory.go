package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/common"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
)

// InMemoryRepository keeps records for the life of the process.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byChain map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byChain: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.byChain[user.TaskChainID] = *user
	r.mu.Unlock()

	return user, nil
}

func (r *InMemoryRepository) GetByTaskChainID(ctx context.Context, taskChainID string) (*models.User, error) {
	r.mu.RLock()
	u, ok := r.byChain[taskChainID]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
