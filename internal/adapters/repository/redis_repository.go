package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

// storeKey is the single fixed key holding the whole serialized store.
const storeKey = "hidden-habits:store"

var _ domain.StoreRepository = (*RedisStoreRepository)(nil)

// RedisStoreRepository persists the store in a remote key-value service. One
// blob, one key; SET is atomic from a reader's perspective.
type RedisStoreRepository struct {
	client *redis.Client
}

// NewRedisClient connects to the remote key-value service. url is a
// redis:// or rediss:// URL; token, when set, overrides the URL credential
// (managed KV services hand out a bearer token separate from the URL).
func NewRedisClient(url, token string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid remote KV url: %w", err)
	}
	if token != "" {
		opts.Password = token
	}
	opts.DialTimeout = 10 * time.Second
	opts.ReadTimeout = 30 * time.Second
	opts.WriteTimeout = 30 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to remote KV at %s: %w", opts.Addr, err)
	}

	return rdb, nil
}

func NewRedisStoreRepository(client *redis.Client) *RedisStoreRepository {
	return &RedisStoreRepository{
		client: client,
	}
}

func (r *RedisStoreRepository) Read(ctx context.Context) domain.HabitStore {
	val, err := r.client.Get(ctx, storeKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[KV] Read error, serving default store: %v", err)
		}
		return domain.DefaultStore()
	}
	return domain.NormalizeJSON([]byte(val))
}

func (r *RedisStoreRepository) Write(ctx context.Context, store domain.HabitStore) error {
	payload, err := store.CanonicalPayload()
	if err != nil {
		return fmt.Errorf("kv store: serialize: %w", err)
	}
	if err := r.client.Set(ctx, storeKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("kv store: set: %w", err)
	}
	return nil
}
