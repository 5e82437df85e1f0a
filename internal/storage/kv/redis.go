package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "roomify:"

// RedisStore keeps each user's key space in one hash: {prefix}kv:{user_id}.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	if err := checkArgs(userID, key); err != nil {
		return nil, err
	}

	data, err := s.client.HGet(ctx, s.userKey(userID), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, userID, key string, value []byte) error {
	if err := checkArgs(userID, key); err != nil {
		return err
	}

	if err := s.client.HSet(ctx, s.userKey(userID), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, userID, key string, value []byte) (bool, error) {
	if err := checkArgs(userID, key); err != nil {
		return false, err
	}

	ok, err := s.client.HSetNX(ctx, s.userKey(userID), key, value).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", key, err)
	}
	return ok, nil
}

func (s *RedisStore) Keys(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	keys, err := s.client.HKeys(ctx, s.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) userKey(userID string) string {
	return fmt.Sprintf("%skv:%s", s.prefix, userID)
}
