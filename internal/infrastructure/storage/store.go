// internal/infrastructure/storage/store.go
package storage

import "context"

// Store is a small key-value persistence surface for guest snapshots. A
// missing key loads as empty data, not an error.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// WithPrefix returns a view of the store that namespaces every key. Used to
// scope the well-known snapshot keys to one session.
func WithPrefix(store Store, prefix string) Store {
	return &prefixedStore{store: store, prefix: prefix}
}

type prefixedStore struct {
	store  Store
	prefix string
}

func (p *prefixedStore) Load(ctx context.Context, key string) ([]byte, error) {
	return p.store.Load(ctx, p.prefix+key)
}

func (p *prefixedStore) Save(ctx context.Context, key string, data []byte) error {
	return p.store.Save(ctx, p.prefix+key, data)
}

func (p *prefixedStore) Clear(ctx context.Context, key string) error {
	return p.store.Clear(ctx, p.prefix+key)
}
