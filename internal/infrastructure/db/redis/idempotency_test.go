package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client), mr
}

func TestIdempotencyStore_KeyIsScoped(t *testing.T) {
	s := NewIdempotencyStore(nil)

	if got := s.key("debts:u1", "abc"); got != "idem:debts:u1:abc" {
		t.Fatalf("unexpected key: %s", got)
	}
	if s.key("debts:u1", "abc") == s.key("debts:u2", "abc") {
		t.Fatal("keys from different callers must not collide")
	}
}

func TestIdempotencyStore_LookupUnknownKey(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.Lookup(context.Background(), "debts:u1", "never-used")
	if err != nil {
		t.Fatalf("unknown key must not be an error: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestIdempotencyStore_RememberKeepsFirstID(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Remember(ctx, "debts:u1", "k1", "debt-a", time.Hour); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if err := s.Remember(ctx, "debts:u1", "k1", "debt-b", time.Hour); err != nil {
		t.Fatalf("second remember: %v", err)
	}

	id, err := s.Lookup(ctx, "debts:u1", "k1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if id != "debt-a" {
		t.Fatalf("expected first id to win, got %q", id)
	}
	if got, _ := mr.Get("idem:debts:u1:k1"); got != "debt-a" {
		t.Fatalf("unexpected stored value %q", got)
	}

	if other, _ := s.Lookup(ctx, "debts:u2", "k1"); other != "" {
		t.Fatalf("key leaked across scopes: %q", other)
	}
}

func TestIdempotencyStore_KeysExpire(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Remember(ctx, "debts:u1", "k1", "debt-a", time.Minute); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if ttl := mr.TTL("idem:debts:u1:k1"); ttl != time.Minute {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	mr.FastForward(2 * time.Minute)

	if id, err := s.Lookup(ctx, "debts:u1", "k1"); err != nil || id != "" {
		t.Fatalf("expired key should be unknown, got %q %v", id, err)
	}
}

func TestIdempotencyStore_ServerDown(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	if _, err := s.Lookup(context.Background(), "debts:u1", "k1"); err == nil {
		t.Fatal("expected lookup error when redis is unreachable")
	}
	if err := s.Remember(context.Background(), "debts:u1", "k1", "d", time.Minute); err == nil {
		t.Fatal("expected remember error when redis is unreachable")
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected connect to fail against a closed server")
	}
}
