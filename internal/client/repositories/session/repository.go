// Package session is the station's local key/value store: cached resident
// identity, tokens, role tag and language preference. Values survive a
// restart and are cleared explicitly on logout.
package session

import "context"

type Repository interface {
	// Get returns the value stored under key, or nil when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
