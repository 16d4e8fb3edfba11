package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreWithClient(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := testRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, DocumentKey("doc-1"), []byte(`{"id":"doc-1"}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, err := store.Get(ctx, DocumentKey("doc-1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || string(value) != `{"id":"doc-1"}` {
		t.Errorf("Get = (%q, %v), want the stored payload", value, ok)
	}
}

func TestRedisStoreMiss(t *testing.T) {
	store, _ := testRedisStore(t)

	_, ok, err := store.Get(context.Background(), DocumentKey("missing"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a miss for an unset key")
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := testRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, DocumentKey("doc-1"), []byte("v"), 30*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	mr.FastForward(time.Minute)

	if _, ok, _ := store.Get(ctx, DocumentKey("doc-1")); ok {
		t.Error("expected the entry to expire after its ttl")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := testRedisStore(t)
	ctx := context.Background()

	store.Set(ctx, DocumentKey("doc-1"), []byte("a"), 0)
	store.Set(ctx, SectionsKey("doc-1"), []byte("b"), 0)

	if err := store.Delete(ctx, DocumentKey("doc-1"), DocumentKey("missing")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, DocumentKey("doc-1")); ok {
		t.Error("deleted key still present")
	}
	if _, ok, _ := store.Get(ctx, SectionsKey("doc-1")); !ok {
		t.Error("unrelated key removed")
	}
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	store, mr := testRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, DocumentKey("doc-1"), []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("docflow:document:doc-1") {
		t.Error("expected the entry under the service key prefix")
	}
}
