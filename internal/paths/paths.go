// Package paths resolves every file location the tool reads or writes,
// relative to an explicit project root.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keycool/hotsearch/internal/model"
)

// maxDetectDepth is how many parent directories DetectRoot inspects.
const maxDetectDepth = 5

// rootMarkers identify a project root, checked in order at each level.
var rootMarkers = []string{
	".claude",
	filepath.Join("config", "config.yaml"),
}

// DetectRoot walks up from start looking for a project marker. It returns
// start itself when nothing is found within maxDetectDepth levels.
func DetectRoot(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return start
	}

	dir := abs
	for i := 0; i <= maxDetectDepth; i++ {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return abs
}

// ConfigFile is the default config file location under root.
func ConfigFile(root string) string {
	return filepath.Join(root, "config", "config.yaml")
}

// Layout maps artifacts to paths. It is built once per run from the resolved
// configuration and handed to whatever needs it.
type Layout struct {
	root           string
	dataDir        string
	cacheDir       string
	rawFormat      string
	reportFormat   string
	analysisFormat string
	singlePlatform bool
}

// New builds a Layout for root using the path settings in cfg.
func New(root string, cfg model.Config) *Layout {
	l := &Layout{
		root:           root,
		rawFormat:      cfg.Paths.RawFilenameFormat,
		reportFormat:   cfg.Paths.ReportFilenameFormat,
		analysisFormat: cfg.Output.IntermediateFilename,
		singlePlatform: cfg.Report.SinglePlatform,
	}
	l.dataDir = l.Resolve(cfg.Paths.DataDir)
	if cfg.Cache.Dir != "" {
		l.cacheDir = l.Resolve(cfg.Cache.Dir)
	} else {
		l.cacheDir = filepath.Join(l.dataDir, ".cache")
	}
	return l
}

func (l *Layout) Root() string     { return l.root }
func (l *Layout) DataDir() string  { return l.dataDir }
func (l *Layout) CacheDir() string { return l.cacheDir }

// ConfigFile returns the default config file of this layout's root.
func (l *Layout) ConfigFile() string {
	return ConfigFile(l.root)
}

// Resolve makes p absolute against the root. Absolute paths are returned
// cleaned but otherwise unchanged.
func (l *Layout) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(l.root, p)
}

// EnsureDataDir creates the data directory if needed.
func (l *Layout) EnsureDataDir() error {
	if err := os.MkdirAll(l.dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// RawFile is the path of the raw topics file of source fetched at timestamp.
func (l *Layout) RawFile(source, timestamp string) string {
	return filepath.Join(l.dataDir, expand(l.rawFormat, source, timestamp))
}

// RawPattern is the file name glob matching every raw topics file of source.
func (l *Layout) RawPattern(source string) string {
	return expand(l.rawFormat, source, "*")
}

func (l *Layout) ReportFile(source, timestamp string) string {
	return filepath.Join(l.dataDir, expand(l.reportFormat, source, timestamp))
}

// ReportPattern is the file name glob matching every HTML report.
func (l *Layout) ReportPattern() string {
	return expand(l.reportFormat, "*", "*")
}

// ReportTimestamp extracts source and timestamp from a report file name. It
// reports false when name does not follow the report file name format.
func (l *Layout) ReportTimestamp(name string) (source, timestamp string, ok bool) {
	return parse(l.reportFormat, filepath.Base(name))
}

func (l *Layout) AnalysisFile(source, timestamp string) string {
	return filepath.Join(l.dataDir, expand(l.analysisFormat, source, timestamp))
}

// IndexFile is the fixed-name copy of the latest report of source.
func (l *Layout) IndexFile(source string) string {
	if l.singlePlatform {
		return filepath.Join(l.dataDir, "index.html")
	}
	return filepath.Join(l.dataDir, "index_"+source+".html")
}

// OverviewFile is the page linking the latest report of every source. In
// single-platform mode it shares index.html with IndexFile, so it is written
// as overview.html instead.
func (l *Layout) OverviewFile() string {
	if l.singlePlatform {
		return filepath.Join(l.dataDir, "overview.html")
	}
	return filepath.Join(l.dataDir, "index.html")
}

func (l *Layout) DebugFile(timestamp string) string {
	return filepath.Join(l.dataDir, "debug_json_"+timestamp+".txt")
}

func expand(format, source, timestamp string) string {
	return strings.NewReplacer("{source}", source, "{timestamp}", timestamp).Replace(format)
}

// parse inverts expand for formats of the shape prefix{source}sep{timestamp}suffix.
func parse(format, name string) (source, timestamp string, ok bool) {
	si := strings.Index(format, "{source}")
	ti := strings.Index(format, "{timestamp}")
	if si < 0 || ti < 0 || ti < si {
		return "", "", false
	}
	prefix := format[:si]
	sep := format[si+len("{source}") : ti]
	suffix := format[ti+len("{timestamp}"):]

	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) || len(name) < len(prefix)+len(suffix) {
		return "", "", false
	}
	middle := name[len(prefix) : len(name)-len(suffix)]
	if sep == "" {
		return "", "", false
	}
	i := strings.LastIndex(middle, sep)
	if i <= 0 || i+len(sep) >= len(middle) {
		return "", "", false
	}
	return middle[:i], middle[i+len(sep):], true
}
