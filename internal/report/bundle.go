package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keycool/hotsearch/internal/util"
)

// File is one rendered artifact and where it belongs
type File struct {
	Path string
	Data []byte
}

// Write replaces the file on disk
func (f *File) Write() error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return util.WriteFileAtomic(f.Path, f.Data, 0o644)
}

// Bundle is the set of artifacts produced by one analysis run
type Bundle struct {
	Report File // {source}_analysis_{ts}.html
	Index  File // index_{source}.html, or index.html in single-platform mode
	JSON   File // {source}_analysis_{ts}.json
}

// Files returns the artifacts in write order
func (b *Bundle) Files() []File {
	return []File{b.Report, b.Index, b.JSON}
}

// Write puts every artifact in place or none of them. All files are staged
// next to their targets first; if staging or any rename fails, the staged
// files and the targets already renamed by this call are removed.
func (b *Bundle) Write() error {
	files := b.Files()
	staged := make([]string, 0, len(files))

	for _, f := range files {
		tmp, err := stage(f)
		if err != nil {
			removeAll(staged)
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		staged = append(staged, tmp)
	}

	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			removeAll(staged[i:])
			done := make([]string, 0, i)
			for _, prev := range files[:i] {
				done = append(done, prev.Path)
			}
			if rbErr := removeAll(done); rbErr != nil {
				return fmt.Errorf("write %s: %w", f.Path, errors.Join(err, rbErr))
			}
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}
	return nil
}

func stage(f File) (string, error) {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(f.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func removeAll(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
