package storage

import "context"

// Repository is device-local key/value storage, the equivalent of a
// browser's localStorage. Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Store is a Repository that can also run a group of operations atomically.
// Inside Update, fn must use only the tx Repository it is given; the changes
// become visible together when fn returns nil and are discarded otherwise.
type Store interface {
	Repository
	Update(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
}
