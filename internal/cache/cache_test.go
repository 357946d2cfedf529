package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("fetch", "https://apis.tianapi.com/weibohot/index")
	b := Key("fetch", "https://apis.tianapi.com/douyinhot/index")
	if a == b {
		t.Error("Expected different keys for different URLs")
	}
	if a != Key("fetch", "https://apis.tianapi.com/weibohot/index") {
		t.Error("Expected stable keys")
	}
	if Key("x", "ab", "c") == Key("x", "a", "bc") {
		t.Error("Expected part boundaries to matter")
	}
	if strings.ContainsAny(a, `/\:`) {
		t.Errorf("Key is not file-name safe: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("Expected miss on empty cache")
	}
	_ = c.Set("k", []byte("v"), 0)
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Expected hit with v, got %q %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	_ = c.Set("short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("Expected expired entry to miss")
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("k", []byte(`{"code":200}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, ok := c.Get("k"); !ok || string(got) != `{"code":200}` {
		t.Errorf("Expected hit, got %q %v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after expiry")
	}
	if _, err := os.Stat(filepath.Join(dir, "k"+diskSuffix)); !os.IsNotExist(err) {
		t.Error("Expected expired entry to be removed from disk")
	}
}

func TestDiskCache_DeleteMissingIsNotAnError(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	if err := c.Delete("absent"); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestDiskCache_Prune(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set("old", []byte("a"), time.Second)
	_ = c.Set("fresh", []byte("b"), time.Hour)
	if err := os.WriteFile(filepath.Join(dir, "junk"+diskSuffix), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	now = now.Add(time.Minute)
	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("Expected fresh entry to survive")
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("Expected unrelated file to survive")
	}
}

func TestDiskCache_PruneMissingDir(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "none"), time.Minute)
	if n, err := c.Prune(); err != nil || n != 0 {
		t.Errorf("Expected (0, nil), got (%d, %v)", n, err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	first := NewLayeredCache(dir, time.Minute)
	if err := first.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A new process sees only the disk layer.
	second := NewLayeredCache(dir, time.Minute)
	if second.memory.Len() != 0 {
		t.Fatal("Expected empty memory layer")
	}
	if got, ok := second.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("Expected disk hit, got %q %v", got, ok)
	}
	if _, ok := second.memory.Get("k"); !ok {
		t.Error("Expected disk hit to be promoted to memory")
	}

	if err := second.Delete("k"); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if _, ok := second.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}
