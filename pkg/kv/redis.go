package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists snapshots in Redis. Documents live forever (no TTL);
// the application owns their lifecycle via Delete.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStore connects to the given address and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (s *RedisStore) Get(key string) ([]byte, error) {
	doc, err := s.client.Get(s.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *RedisStore) Put(key string, doc []byte) error {
	return s.client.Set(s.ctx, key, doc, 0).Err()
}

func (s *RedisStore) Delete(key string) error {
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisStore) List(prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(s.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
