package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ggoodman/paramkit/internal/logctx"
	"github.com/ggoodman/paramkit/storage"
	"github.com/google/uuid"
)

// LatestKey is the alias under which Save also stores the newest snapshot.
const LatestKey = "latest"

// ErrSnapshotNotFound is returned by Load when no snapshot exists under the
// requested id.
var ErrSnapshotNotFound = errors.New("collection: snapshot not found")

// Save stores a JSON snapshot of c in store, in the collection's namespace,
// under a fresh id and under LatestKey. It returns the id.
func (c *Collection) Save(ctx context.Context, store storage.Store) (string, error) {
	id := uuid.NewString()
	ctx = logctx.WithCollectionData(ctx, &logctx.CollectionData{Name: c.name, SnapshotID: id, Op: "save"})

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return "", fmt.Errorf("collection %s: encode snapshot: %w", c.name, err)
	}
	opts := []storage.Option{storage.WithCollection(c.name), storage.WithTTL(c.cfg.SnapshotTTL)}
	for _, key := range []string{id, LatestKey} {
		if err := store.Set(ctx, key, data, opts...); err != nil {
			c.log.ErrorContext(ctx, "collection: snapshot save failed", slog.String("key", key), slog.String("err", err.Error()))
			return "", fmt.Errorf("collection %s: save: %w", c.name, err)
		}
	}
	c.log.InfoContext(ctx, "collection: snapshot saved", slog.Int("params", c.Len()), slog.Int("bytes", len(data)))
	return id, nil
}

// Load restores the snapshot of collection name stored under id. An empty id
// selects LatestKey. The options configure the restored collection.
func Load(ctx context.Context, store storage.Store, name, id string, opts ...Option) (*Collection, error) {
	if id == "" {
		id = LatestKey
	}
	item, err := store.Get(ctx, id, storage.WithCollection(name))
	if err != nil {
		return nil, fmt.Errorf("collection %s: load %s: %w", name, id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrSnapshotNotFound, name, id)
	}
	var s Snapshot
	if err := json.Unmarshal(item.Data, &s); err != nil {
		return nil, fmt.Errorf("collection %s: decode snapshot %s: %w", name, id, err)
	}
	c, err := Restore(s, opts...)
	if err != nil {
		return nil, err
	}
	ctx = logctx.WithCollectionData(ctx, &logctx.CollectionData{Name: name, SnapshotID: id, Op: "load"})
	c.log.InfoContext(ctx, "collection: snapshot loaded", slog.Int("params", c.Len()))
	return c, nil
}

// Forget deletes every snapshot stored for the collection.
func (c *Collection) Forget(ctx context.Context, store storage.Store) error {
	if err := store.Delete(ctx, storage.WithCollection(c.name)); err != nil {
		return fmt.Errorf("collection %s: forget: %w", c.name, err)
	}
	return nil
}
