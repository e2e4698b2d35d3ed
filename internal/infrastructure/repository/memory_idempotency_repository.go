package repository

import (
	"context"
	"sync"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	domainRepo "github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/pkg/apperror"
)

// memoryIdempotencyRepository keeps idempotency keys in process when no
// database is configured
type memoryIdempotencyRepository struct {
	mu   sync.RWMutex
	keys map[string]*entity.IdempotencyKey
}

// NewMemoryIdempotencyRepository creates an in-memory idempotency repository
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[string]*entity.IdempotencyKey)}
}

func memoryKey(key, clientID string) string {
	return clientID + "\x00" + key
}

func (r *memoryIdempotencyRepository) GetByKey(_ context.Context, key string, clientID string) (*entity.IdempotencyKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ikey, ok := r.keys[memoryKey(key, clientID)]; ok {
		c := *ikey
		return &c, nil
	}
	return nil, nil
}

func (r *memoryIdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey(ikey.Key, ikey.ClientID)
	if existing, ok := r.keys[k]; ok && !existing.IsExpired() {
		return apperror.NewConflictError("Idempotency key already used")
	}
	c := *ikey
	r.keys[k] = &c
	return nil
}

func (r *memoryIdempotencyRepository) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, ikey := range r.keys {
		if ikey.IsExpired() {
			delete(r.keys, k)
		}
	}
	return nil
}
