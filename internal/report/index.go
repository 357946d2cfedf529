package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/paths"
)

// Entry describes one report file found on disk
type Entry struct {
	Source      string
	Filename    string
	Timestamp   string
	DisplayTime string
	Size        int64
}

// SizeKB is the file size in kilobytes with one decimal
func (e *Entry) SizeKB() string {
	return fmt.Sprintf("%.1f", float64(e.Size)/1024)
}

type platformView struct {
	Source model.Source
	Latest *Entry
}

type indexView struct {
	PlatformNames string
	WithReports   int
	Platforms     []platformView
	GeneratedAt   string
}

// LatestReports scans the data directory and returns the newest report per
// source, keyed by source ID.
func LatestReports(layout *paths.Layout) (map[string]*Entry, error) {
	matches, err := filepath.Glob(filepath.Join(layout.DataDir(), layout.ReportPattern()))
	if err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}

	latest := make(map[string]*Entry)
	for _, path := range matches {
		name := filepath.Base(path)
		source, ts, ok := layout.ReportTimestamp(name)
		if !ok {
			continue
		}
		if cur, seen := latest[source]; seen && cur.Timestamp >= ts {
			continue
		}

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		latest[source] = &Entry{
			Source:      source,
			Filename:    name,
			Timestamp:   ts,
			DisplayTime: DisplayTime(ts),
			Size:        info.Size(),
		}
	}
	return latest, nil
}

// BuildIndex renders the overview page linking the newest report of each
// source. Sources without a report get a placeholder section.
func BuildIndex(layout *paths.Layout, sources []model.Source) (*File, error) {
	latest, err := LatestReports(layout)
	if err != nil {
		return nil, err
	}

	view := indexView{
		Platforms:   make([]platformView, 0, len(sources)),
		GeneratedAt: time.Now().Format(model.DisplayTimeLayout),
	}
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name)
		entry := latest[src.ID]
		if entry != nil {
			view.WithReports++
		}
		view.Platforms = append(view.Platforms, platformView{Source: src, Latest: entry})
	}
	view.PlatformNames = strings.Join(names, "、")

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html.tmpl", view); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return &File{Path: layout.OverviewFile(), Data: buf.Bytes()}, nil
}
