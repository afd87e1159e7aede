//go:build !integration

package memcache

import (
	"testing"
	"time"
)

func TestStoreExpiryOnRead(t *testing.T) {
	s := NewStore()

	s.Set("k", []byte("v"), 10*time.Millisecond)

	if _, ok := s.Get("k"); !ok {
		t.Fatal("expected a hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Error("expected a miss after the TTL elapsed")
	}
	if s.Len() != 0 {
		t.Errorf("expired entry not reaped on read, len = %d", s.Len())
	}
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	s := NewStore()

	s.Set("k", []byte("v"), 0)

	time.Sleep(5 * time.Millisecond)

	if _, ok := s.Get("k"); !ok {
		t.Error("entry with no TTL must not expire")
	}
}

func TestStoreDeleteByPattern(t *testing.T) {
	s := NewStore()

	s.Set("catalog:list:page=1", []byte("a"), 0)
	s.Set("catalog:list:page=2", []byte("b"), 0)
	s.Set("catalog:product:p1", []byte("c"), 0)

	s.DeleteByPattern("catalog:list:*")

	if _, ok := s.Get("catalog:list:page=1"); ok {
		t.Error("list entry survived pattern delete")
	}
	if _, ok := s.Get("catalog:list:page=2"); ok {
		t.Error("list entry survived pattern delete")
	}
	if _, ok := s.Get("catalog:product:p1"); !ok {
		t.Error("detail entry was deleted by a non-matching pattern")
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	s := NewStore()

	s.Set("k", []byte("old"), 0)
	s.Set("k", []byte("new"), 0)

	v, ok := s.Get("k")
	if !ok || string(v) != "new" {
		t.Errorf("got %q, want the overwritten value", v)
	}
}
