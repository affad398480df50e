package cache

import (
	"testing"
	"time"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set(40.7128, -74.0060, "metric", `{"some":"payload"}`, time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok, err := c.Get(40.7128, -74.0060, "metric")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() reported a miss for a fresh entry")
	}
	if data != `{"some":"payload"}` {
		t.Errorf("Get() = %q, want stored payload", data)
	}
}

func TestCacheMissOnDifferentUnit(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set(40.7128, -74.0060, "metric", "payload", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, ok, err := c.Get(40.7128, -74.0060, "imperial")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit for a unit that was never cached")
	}
}

func TestCacheCoordinateRounding(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set(40.7128, -74.0060, "metric", "payload", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// ~100m away rounds to the same key
	_, ok, err := c.Get(40.7131, -74.0058, "metric")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Error("Get() missed for coordinates that round to the same key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set(40.7128, -74.0060, "metric", "payload", -time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, ok, err := c.Get(40.7128, -74.0060, "metric")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() returned an expired entry")
	}
}

func TestCacheReplace(t *testing.T) {
	c := setupTestCache(t)

	if err := c.Set(40.7128, -74.0060, "metric", "old", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Set(40.7128, -74.0060, "metric", "new", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok, err := c.Get(40.7128, -74.0060, "metric")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", data, ok, err)
	}
	if data != "new" {
		t.Errorf("Get() = %q, want %q", data, "new")
	}
}
