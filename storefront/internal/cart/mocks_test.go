package cart

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/storefront/internal/storage"
)

var errDiskFull = errors.New("disk full")

// FailingStore wraps a MemoryStore and fails every Save while fail is set.
type FailingStore struct {
	*storage.MemoryStore
	fail  bool
	saves int
}

func (f *FailingStore) Save(ctx context.Context, key string, value []byte) error {
	f.saves++
	if f.fail {
		return errDiskFull
	}
	return f.MemoryStore.Save(ctx, key, value)
}
