package metadata

import "context"

// Repository stores raw values under string keys within one storage scope.
//
// A missing key is not an error: Get reports it as (nil, nil). Deleting a
// missing key and clearing an empty repository succeed.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Batcher is implemented by repositories that can write or delete several
// keys atomically.
type Batcher interface {
	SetMany(ctx context.Context, values map[string][]byte) error
	DeleteKeys(ctx context.Context, keys ...string) error
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*SQLiteRepository)(nil)
	_ Repository = (*RedisRepository)(nil)

	_ Batcher = (*SQLiteRepository)(nil)
	_ Batcher = (*RedisRepository)(nil)
)
