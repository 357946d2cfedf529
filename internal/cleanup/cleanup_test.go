package cleanup

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestSweep_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tmpclaude-a", 5*time.Hour)
	touch(t, dir, "tmpclaude-b", 1*time.Hour)
	touch(t, dir, "tmpclaude-c", 3*time.Hour)
	touch(t, dir, "tmpclaude-d", 2*time.Hour)
	touch(t, dir, "tmpclaude-e", 4*time.Hour)
	touch(t, dir, "keep-me.txt", 10*time.Hour)
	if err := os.Mkdir(filepath.Join(dir, "tmpclaude-dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Sweep(dir, "tmpclaude-", 3)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if res.Found != 5 {
		t.Errorf("Expected 5 candidates, got %d", res.Found)
	}
	if want := []string{"tmpclaude-b", "tmpclaude-d", "tmpclaude-c"}; !reflect.DeepEqual(res.Kept, want) {
		t.Errorf("Expected kept %v, got %v", want, res.Kept)
	}
	if want := []string{"tmpclaude-e", "tmpclaude-a"}; !reflect.DeepEqual(res.Deleted, want) {
		t.Errorf("Expected deleted %v, got %v", want, res.Deleted)
	}

	for _, name := range []string{"keep-me.txt", "tmpclaude-dir", "tmpclaude-b"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to survive: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "tmpclaude-a")); !os.IsNotExist(err) {
		t.Error("Expected tmpclaude-a to be deleted")
	}
}

func TestSweep_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tmpclaude-only", time.Minute)

	res, err := Sweep(dir, "tmpclaude-", 3)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if res.Found != 1 || len(res.Deleted) != 0 || len(res.Kept) != 1 {
		t.Errorf("Unexpected result: %+v", res)
	}
}

func TestSweep_KeepZeroDeletesAll(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tmp-1", time.Minute)
	touch(t, dir, "tmp-2", time.Hour)

	res, err := Sweep(dir, "tmp-", 0)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(res.Deleted) != 2 {
		t.Errorf("Expected 2 deletions, got %v", res.Deleted)
	}
}

func TestSweep_DeleteFailureIsSkipped(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "tmp-new", time.Minute)
	touch(t, dir, "tmp-mid", time.Hour)
	touch(t, dir, "tmp-old", 2*time.Hour)

	orig := removeFunc
	removeFunc = func(path string) error {
		if filepath.Base(path) == "tmp-mid" {
			return errors.New("permission denied")
		}
		return os.Remove(path)
	}
	defer func() { removeFunc = orig }()

	res, err := Sweep(dir, "tmp-", 1)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0].Name != "tmp-mid" {
		t.Errorf("Expected tmp-mid failure, got %+v", res.Failed)
	}
	if !reflect.DeepEqual(res.Deleted, []string{"tmp-old"}) {
		t.Errorf("Expected tmp-old deleted, got %v", res.Deleted)
	}
}

func TestSweep_InvalidArguments(t *testing.T) {
	dir := t.TempDir()
	if _, err := Sweep(dir, "", 3); err == nil {
		t.Error("Expected error for empty prefix")
	}
	if _, err := Sweep(dir, "tmp-", -1); err == nil {
		t.Error("Expected error for negative keep")
	}
	if _, err := Sweep(filepath.Join(dir, "missing"), "tmp-", 3); err == nil {
		t.Error("Expected error for missing directory")
	}
}
