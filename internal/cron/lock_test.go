package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryLockStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	delErr error
}

func newMemoryLockStore() *memoryLockStore {
	return &memoryLockStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryLockStore) CompareAndDelete(_ context.Context, key, value string) (bool, error) {
	if m.delErr != nil {
		return false, m.delErr
	}
	if m.values[key] != value {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	store := newMemoryLockStore()
	first, err := NewRedisLock(store, "lock:catalog", 0)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, _ := NewRedisLock(store, "lock:catalog", time.Minute)
	ctx := context.Background()

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, ok=%v err=%v", ok, err)
	}
	if store.ttls["lock:catalog"] != defaultLockTTL {
		t.Fatalf("expected default ttl, got %v", store.ttls["lock:catalog"])
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("expected second acquire to fail while held")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected acquire after release")
	}
}

func TestRedisLockDoesNotReleaseForeignOwner(t *testing.T) {
	store := newMemoryLockStore()
	lock, _ := NewRedisLock(store, "lock:catalog", time.Minute)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	// Lock expired and another worker took it over.
	store.values["lock:catalog"] = "someone-else"

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["lock:catalog"] != "someone-else" {
		t.Fatal("foreign lock was released")
	}
}

func TestRedisLockReleaseIsIdempotent(t *testing.T) {
	store := newMemoryLockStore()
	lock, _ := NewRedisLock(store, "lock:catalog", time.Minute)
	ctx := context.Background()

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release without acquire should be a no-op, got %v", err)
	}
	lock.Acquire(ctx)
	delete(store.values, "lock:catalog")
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("expected expired lease to be ignored, got %v", err)
	}

	lock.Acquire(ctx)
	store.delErr = errors.New("connection reset")
	if err := lock.Release(ctx); err == nil {
		t.Fatal("expected store error")
	}
	store.delErr = nil
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("second release after failure should be a no-op, got %v", err)
	}
}

func TestNewRedisLockValidates(t *testing.T) {
	if _, err := NewRedisLock(nil, "k", time.Minute); err == nil {
		t.Fatal("expected nil store error")
	}
	if _, err := NewRedisLock(newMemoryLockStore(), "", time.Minute); err == nil {
		t.Fatal("expected empty key error")
	}
}
