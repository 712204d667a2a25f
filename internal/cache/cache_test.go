package cache

import (
	"testing"
	"time"
)

func TestGetMissesWhenEmpty(t *testing.T) {
	c := New[string](time.Minute)
	if _, ok := c.Get("key"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestSetThenGet(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("key", 5)
	got, ok := c.Get("key")
	if !ok || got != 5 {
		t.Fatalf("expected hit with 5, got %d ok=%v", got, ok)
	}
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	c := NewWithClock[string](10*time.Second, clock)

	c.Set("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Fatal("expected hit before TTL")
	}

	now = now.Add(9 * time.Second)
	if _, ok := c.Get("key"); !ok {
		t.Fatal("expected hit just inside TTL")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("key"); ok {
		t.Fatal("expected miss once TTL elapsed")
	}
}

func TestInvalidateRemovesOneEntry(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Invalidate("a")

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be gone")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("expected b to survive")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected empty cache after InvalidateAll")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected empty cache after InvalidateAll")
	}
}
