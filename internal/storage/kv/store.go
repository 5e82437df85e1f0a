// Package kv is the per-user keyed store that backs project records and
// hosting configuration. Values are opaque bytes, usually JSON.
package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("kv: key not found")
	ErrEmptyUserID = errors.New("kv: user id is required")
	ErrEmptyKey    = errors.New("kv: key is required")
)

// Store keeps one independent key space per user.
type Store interface {
	Get(ctx context.Context, userID, key string) ([]byte, error)
	Set(ctx context.Context, userID, key string, value []byte) error
	// SetIfAbsent writes value only when key does not exist yet and reports
	// whether it did.
	SetIfAbsent(ctx context.Context, userID, key string, value []byte) (bool, error)
	// Keys lists every key of the user in store enumeration order.
	Keys(ctx context.Context, userID string) ([]string, error)
	Ping(ctx context.Context) error
}

func checkArgs(userID, key string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
