// Package redis provides a Redis-backed implementation of the storage.Store interface.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/go-redis/redis/v8"

	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*RedisStore)(nil)

// Config is the redis configuration
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore implements storage.Store on top of plain Redis string keys.
// Snapshots never expire.
type RedisStore struct {
	client *goredis.Client
	prefix string
}

// New connects to Redis and verifies the connection with a PING.
func New(ctx context.Context, cfg Config) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewWithClient(client, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client. The store takes ownership of it.
func NewWithClient(client *goredis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{client: client, prefix: keyPrefix}
}

// key makes a redis key from a namespace
func (r *RedisStore) key(namespace string) string {
	return r.prefix + namespace
}

// Get reads the snapshot for namespace.
func (r *RedisStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(namespace)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return val, nil
}

// Put writes the snapshot for namespace with no TTL.
func (r *RedisStore) Put(ctx context.Context, namespace string, value []byte) error {
	if err := r.client.Set(ctx, r.key(namespace), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for namespace.
func (r *RedisStore) Delete(ctx context.Context, namespace string) error {
	if err := r.client.Del(ctx, r.key(namespace)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
