package collection

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ggoodman/paramkit/storage"
	"github.com/ggoodman/paramkit/storage/memory"
)

func newMemory(t *testing.T) *memory.Store {
	t.Helper()
	s, err := memory.New(16)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)

	var logs bytes.Buffer
	c := svm(t)
	c = mustRestore(t, c, WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))
	_ = c.Set("C", 12)

	id, err := c.Save(ctx, store)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty snapshot id")
	}
	if !strings.Contains(logs.String(), `"snapshot_id":"`+id+`"`) {
		t.Fatalf("save log lacks collection context: %s", logs.String())
	}

	for _, key := range []string{id, ""} {
		got, err := Load(ctx, store, "svm", key)
		if err != nil {
			t.Fatalf("Load(%q): %v", key, err)
		}
		if !reflect.DeepEqual(got.Values(), c.Values()) {
			t.Fatalf("Load(%q) values = %v", key, got.Values())
		}
		if !reflect.DeepEqual(got.WhichSet(), []string{"C"}) {
			t.Fatalf("Load(%q) WhichSet = %v", key, got.WhichSet())
		}
	}
}

func TestSave_LatestTracksNewest(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	c := svm(t)

	first, _ := c.Save(ctx, store)
	_ = c.Set("degree", 5)
	if _, err := c.Save(ctx, store); err != nil {
		t.Fatalf("Save: %v", err)
	}

	latest, err := Load(ctx, store, "svm", "")
	if err != nil {
		t.Fatalf("Load latest: %v", err)
	}
	if latest.Values()["degree"] != 5 {
		t.Fatalf("latest should hold the newest snapshot: %v", latest.Values())
	}
	old, err := Load(ctx, store, "svm", first)
	if err != nil {
		t.Fatalf("Load first: %v", err)
	}
	if old.Values()["degree"] != 3 {
		t.Fatalf("first snapshot changed: %v", old.Values())
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newMemory(t)
	if _, err := Load(context.Background(), store, "svm", ""); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestLoad_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	_ = store.Set(ctx, LatestKey, []byte("{not json"), storage.WithCollection("svm"))
	if _, err := Load(ctx, store, "svm", ""); err == nil || errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestSave_TTL(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	c := New("short", WithConfig(Config{HelpWidth: 70, SnapshotTTL: 50 * time.Millisecond}))

	if _, err := c.Save(ctx, store); err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := Load(ctx, store, "short", ""); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected expired snapshot, got %v", err)
	}
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	c := svm(t)
	id, _ := c.Save(ctx, store)
	if err := c.Forget(ctx, store); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, err := Load(ctx, store, "svm", id); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound after Forget, got %v", err)
	}
}

func mustRestore(t *testing.T, c *Collection, opts ...Option) *Collection {
	t.Helper()
	r, err := Restore(c.Snapshot(), opts...)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	return r
}

func TestForget_KeepsSimilarlyNamedCollections(t *testing.T) {
	ctx := context.Background()
	store := newMemory(t)
	a := New("svm")
	b := New("svm:key:x")
	if _, err := a.Save(ctx, store); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if _, err := b.Save(ctx, store); err != nil {
		t.Fatalf("Save b: %v", err)
	}
	if err := a.Forget(ctx, store); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, err := Load(ctx, store, "svm:key:x", ""); err != nil {
		t.Fatalf("other collection lost: %v", err)
	}
}
