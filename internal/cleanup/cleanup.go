// Package cleanup removes stale temporary files, keeping the newest few.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileError is a file that could not be deleted
type FileError struct {
	Name string
	Err  error
}

// Result summarizes a sweep
type Result struct {
	Found   int
	Kept    []string    // Newest first
	Deleted []string    // Oldest last
	Failed  []FileError // Delete failures; the sweep continues past them
}

type candidate struct {
	name    string
	modTime time.Time
}

// removeFunc deletes a file; tests replace it.
var removeFunc = os.Remove

// Sweep lists the regular files in dir whose name starts with prefix and
// deletes all but the keep most recently modified ones.
func Sweep(dir, prefix string, keep int) (*Result, error) {
	if prefix == "" {
		return nil, fmt.Errorf("cleanup prefix must not be empty")
	}
	if keep < 0 {
		return nil, fmt.Errorf("keep must be >= 0, got %d", keep)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []candidate
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: entry.Name(), modTime: info.ModTime()})
	}

	// Newest first; ties broken by name for a stable order.
	sort.Slice(files, func(i, j int) bool {
		if !files[i].modTime.Equal(files[j].modTime) {
			return files[i].modTime.After(files[j].modTime)
		}
		return files[i].name > files[j].name
	})

	res := &Result{Found: len(files)}
	for i, f := range files {
		if i < keep {
			res.Kept = append(res.Kept, f.name)
			continue
		}
		if err := removeFunc(filepath.Join(dir, f.name)); err != nil {
			res.Failed = append(res.Failed, FileError{Name: f.name, Err: err})
			continue
		}
		res.Deleted = append(res.Deleted, f.name)
	}
	return res, nil
}
