package services

import (
	"context"
	"strconv"

	"github.com/coder-dipesh/equilo/internal/cache"
	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/storage"
)

// cachedDirectory is a read-through user lookup. Display names change
// rarely, so short-lived caching keeps summary assembly off the users table.
type cachedDirectory struct {
	repo  *storage.SQLiteRepository
	cache *cache.LRUCache[core.User]
}

var _ core.UserDirectory = (*cachedDirectory)(nil)

func (d *cachedDirectory) UsersByID(ctx context.Context, ids []int64) (map[int64]core.User, error) {
	users := make(map[int64]core.User, len(ids))
	var missing []int64
	for _, id := range ids {
		if u, ok := d.cache.Get(strconv.FormatInt(id, 10)); ok {
			users[id] = u
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return users, nil
	}

	fetched, err := d.repo.UsersByID(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, u := range fetched {
		users[id] = u
		d.cache.Set(strconv.FormatInt(id, 10), u)
	}
	return users, nil
}

// Invalidate drops a user from the cache after a profile change.
func (d *cachedDirectory) Invalidate(id int64) {
	d.cache.Delete(strconv.FormatInt(id, 10))
}
