package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ggoodman/paramkit/storage"
)

func newStore(t *testing.T, size int) *Store {
	t.Helper()
	s, err := New(size)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for zero-sized cache")
	}
}

func TestGlobalStorage(t *testing.T) {
	s := newStore(t, 100)
	ctx := context.Background()

	if err := s.Set(ctx, "test-key", []byte("test-data")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	item, err := s.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if item == nil || string(item.Data) != "test-data" {
		t.Fatalf("Get() returned %+v", item)
	}
	if item.ExpiresAt != nil {
		t.Fatal("item without TTL must not expire")
	}
}

func TestNamespaceIsolation(t *testing.T) {
	s := newStore(t, 100)
	ctx := context.Background()
	key := "latest"

	if err := s.Set(ctx, key, []byte("global")); err != nil {
		t.Fatalf("Set() global failed: %v", err)
	}
	if err := s.Set(ctx, key, []byte("svm"), storage.WithCollection("svm")); err != nil {
		t.Fatalf("Set() svm failed: %v", err)
	}
	if err := s.Set(ctx, key, []byte("knn"), storage.WithCollection("knn")); err != nil {
		t.Fatalf("Set() knn failed: %v", err)
	}

	for _, tc := range []struct {
		opts []storage.Option
		want string
	}{
		{nil, "global"},
		{[]storage.Option{storage.WithCollection("svm")}, "svm"},
		{[]storage.Option{storage.WithCollection("knn")}, "knn"},
	} {
		item, err := s.Get(ctx, key, tc.opts...)
		if err != nil || item == nil || string(item.Data) != tc.want {
			t.Fatalf("expected %q, got %+v (err %v)", tc.want, item, err)
		}
	}
}

func TestDataIsCopied(t *testing.T) {
	s := newStore(t, 10)
	ctx := context.Background()

	data := []byte("abc")
	_ = s.Set(ctx, "k", data)
	data[0] = 'x'

	item, _ := s.Get(ctx, "k")
	if string(item.Data) != "abc" {
		t.Fatalf("Set must copy its input, got %s", item.Data)
	}
	item.Data[1] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again.Data) != "abc" {
		t.Fatalf("Get must return a copy, got %s", again.Data)
	}
}

func TestTTL(t *testing.T) {
	s := newStore(t, 100)
	ctx := context.Background()
	ttl := 100 * time.Millisecond

	if err := s.Set(ctx, "ttl-key", []byte("ttl-data"), storage.WithTTL(ttl)); err != nil {
		t.Fatalf("Set() with TTL failed: %v", err)
	}
	item, err := s.Get(ctx, "ttl-key")
	if err != nil || item == nil {
		t.Fatalf("Get() before expiration: %+v, %v", item, err)
	}

	time.Sleep(ttl + 50*time.Millisecond)

	item, err = s.Get(ctx, "ttl-key")
	if err != nil {
		t.Fatalf("Get() failed after expiration: %v", err)
	}
	if item != nil {
		t.Fatal("Get() returned non-nil item after expiration")
	}
	if s.Len() != 0 {
		t.Fatalf("expired item should be dropped on read, len=%d", s.Len())
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := newStore(t, 10)
	_ = s.Set(context.Background(), "k", []byte("v"), storage.WithTTL(0))
	item, _ := s.Get(context.Background(), "k")
	if item == nil || item.ExpiresAt != nil {
		t.Fatalf("zero TTL must mean no expiry, got %+v", item)
	}
}

func TestDeleteKey(t *testing.T) {
	s := newStore(t, 100)
	ctx := context.Background()
	ns := storage.WithCollection("svm")

	_ = s.Set(ctx, "a", []byte("1"), ns)
	_ = s.Set(ctx, "b", []byte("2"), ns)

	if err := s.Delete(ctx, ns, storage.WithKey("a")); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if item, _ := s.Get(ctx, "a", ns); item != nil {
		t.Fatal("deleted key still present")
	}
	if item, _ := s.Get(ctx, "b", ns); item == nil {
		t.Fatal("sibling key was deleted")
	}
}

func TestDeleteNamespace(t *testing.T) {
	s := newStore(t, 100)
	ctx := context.Background()
	ns := storage.WithCollection("svm")

	keys := []string{"key1", "key2", "key3"}
	for _, key := range keys {
		if err := s.Set(ctx, key, []byte("data-"+key), ns); err != nil {
			t.Fatalf("Set() failed for %s: %v", key, err)
		}
	}
	_ = s.Set(ctx, "key1", []byte("other"), storage.WithCollection("knn"))

	if err := s.Delete(ctx, ns); err != nil {
		t.Fatalf("Delete() namespace failed: %v", err)
	}
	for _, key := range keys {
		if item, _ := s.Get(ctx, key, ns); item != nil {
			t.Fatalf("Key %s should not exist after namespace deletion", key)
		}
	}
	if item, _ := s.Get(ctx, "key1", storage.WithCollection("knn")); item == nil {
		t.Fatal("other namespace must survive")
	}
}

func TestEviction(t *testing.T) {
	s := newStore(t, 2)
	ctx := context.Background()
	_ = s.Set(ctx, "a", []byte("1"))
	_ = s.Set(ctx, "b", []byte("2"))
	_ = s.Set(ctx, "c", []byte("3"))
	if item, _ := s.Get(ctx, "a"); item != nil {
		t.Fatal("least recently used entry should have been evicted")
	}
}

func TestInvalidKey(t *testing.T) {
	s := newStore(t, 10)
	if _, err := s.Get(context.Background(), ""); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := s.Set(context.Background(), "", nil); !errors.Is(err, storage.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNotFound(t *testing.T) {
	s := newStore(t, 100)
	item, err := s.Get(context.Background(), "non-existent-key")
	if err != nil {
		t.Fatalf("Get() should not return error for non-existent key: %v", err)
	}
	if item != nil {
		t.Fatal("Get() should return nil for non-existent key")
	}
}

func TestDeleteNamespace_OverlappingNames(t *testing.T) {
	s := newStore(t, 100)
	ctx := context.Background()
	names := []string{"svm", "svm:key:x", "svm:a", "*", "s?m", "[s]vm"}
	for _, name := range names {
		if err := s.Set(ctx, "latest", []byte(name), storage.WithCollection(name)); err != nil {
			t.Fatalf("Set(%q): %v", name, err)
		}
	}

	for i, name := range names {
		if err := s.Delete(ctx, storage.WithCollection(name)); err != nil {
			t.Fatalf("Delete(%q): %v", name, err)
		}
		if item, _ := s.Get(ctx, "latest", storage.WithCollection(name)); item != nil {
			t.Fatalf("collection %q not deleted", name)
		}
		for _, other := range names[i+1:] {
			item, err := s.Get(ctx, "latest", storage.WithCollection(other))
			if err != nil || item == nil || string(item.Data) != other {
				t.Fatalf("deleting %q removed collection %q (%+v, %v)", name, other, item, err)
			}
		}
	}
}
