// Package cart stores the per-visitor cart document and applies line edits
// to it.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/adega-api/models"
)

// Repository persists carts by id. Load of an unknown id yields an empty
// cart with that id.
type Repository interface {
	Load(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, id string) error
}

func newCart(id string) *models.Cart {
	return &models.Cart{ID: id, Items: []models.CartItem{}, OrderIDs: []string{}}
}

// -------- Redis --------

type RedisRepository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisRepository keeps each cart under "<prefix>:<id>", refreshing the
// TTL on every save.
func NewRedisRepository(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisRepository {
	if keyPrefix == "" {
		keyPrefix = "adega:cart"
	}
	return &RedisRepository{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (r *RedisRepository) key(id string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, id)
}

func (r *RedisRepository) Load(ctx context.Context, id string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == redis.Nil {
		return newCart(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}

	cart := newCart(id)
	if err := json.Unmarshal(data, cart); err != nil {
		log.Printf("⚠️ Discarding unreadable cart %s: %v", id, err)
		return newCart(id), nil
	}
	return cart, nil
}

func (r *RedisRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.ID, err)
	}
	if err := r.client.Set(ctx, r.key(cart.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("clear cart %s: %w", id, err)
	}
	return nil
}

// -------- Memory --------

// MemoryRepository keeps carts in process. Entries are stored encoded so
// callers never share state with the map.
type MemoryRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]byte)}
}

func (m *MemoryRepository) Load(_ context.Context, id string) (*models.Cart, error) {
	m.mu.RLock()
	data, ok := m.carts[id]
	m.mu.RUnlock()

	cart := newCart(id)
	if !ok {
		return cart, nil
	}
	if err := json.Unmarshal(data, cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return cart, nil
}

func (m *MemoryRepository) Save(_ context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.ID, err)
	}
	m.mu.Lock()
	m.carts[cart.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.carts, id)
	m.mu.Unlock()
	return nil
}
