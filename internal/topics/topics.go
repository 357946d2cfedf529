// Package topics locates and reads the raw topics files written by fetch runs.
package topics

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/keycool/hotsearch/internal/model"
)

// ErrNoTopicsFile means no raw topics file exists for the requested source.
var ErrNoTopicsFile = errors.New("no topics file found")

// Latest returns the newest file in dir matching pattern. Timestamps in file
// names sort chronologically, so newest is lexicographically greatest.
func Latest(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad topics file pattern %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s in %s (run fetch first)", ErrNoTopicsFile, pattern, dir)
	}

	sort.Strings(files)
	return files[len(files)-1], nil
}

// Load reads a topics file.
func Load(path string) (*model.TopicsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoTopicsFile, path)
		}
		return nil, fmt.Errorf("read topics file: %w", err)
	}

	var f model.TopicsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode topics file %s: %w", path, err)
	}
	return &f, nil
}
