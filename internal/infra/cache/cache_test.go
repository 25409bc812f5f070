package cache_test

import (
	"testing"
	"time"

	"github.com/boddenberg/spendwise-api/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5*time.Minute, 0)
	defer c.Close()

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5*time.Minute, 0)
	defer c.Close()

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[string](50*time.Millisecond, 0)
	defer c.Close()

	c.Set("key1", "value1")
	time.Sleep(100 * time.Millisecond)

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5*time.Minute, 0)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := cache.New[int](5*time.Minute, 0)
	defer c.Close()

	c.Set("trends:u1:6", 1)
	c.Set("trends:u1:12", 2)
	c.Set("trends:u2:6", 3)
	c.DeletePrefix("trends:u1:")

	if _, ok := c.Get("trends:u1:6"); ok {
		t.Error("expected trends:u1:6 removed")
	}
	if _, ok := c.Get("trends:u1:12"); ok {
		t.Error("expected trends:u1:12 removed")
	}
	if _, ok := c.Get("trends:u2:6"); !ok {
		t.Error("expected other owner's entry to survive")
	}
}

func TestCache_EvictsOldestWhenFull(t *testing.T) {
	c := cache.New[string](5*time.Minute, 2)
	defer c.Close()

	c.Set("a", "1")
	time.Sleep(2 * time.Millisecond)
	c.Set("b", "2")
	time.Sleep(2 * time.Millisecond)
	c.Set("c", "3")

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected newest entry to be present")
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := cache.New[string](5*time.Minute, 2)
	defer c.Close()

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "updated")

	if v, _ := c.Get("a"); v != "updated" {
		t.Errorf("expected updated value, got %q", v)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("overwriting a key must not evict another")
	}
}

func TestCache_NonPositiveTTLFallsBackToDefault(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		c := cache.New[string](ttl, 0)
		c.Set("key1", "value1")
		if _, ok := c.Get("key1"); !ok {
			t.Errorf("ttl %v: expected entry to be live", ttl)
		}
		c.Close()
	}
}
