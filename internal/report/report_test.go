package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keycool/hotsearch/internal/config"
	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/paths"
)

var thresholds = model.GradeThresholds{Excellent: 80, Good: 60}

func scored(rank, total int, title, grade string) model.ScoredTopic {
	return model.ScoredTopic{
		Rank:       model.LooseInt(rank),
		Title:      title,
		TotalScore: model.LooseInt(total),
		Grade:      grade,
		Scores:     model.Scores{Novelty: 15, Resonance: 12, Viral: 10, Entertainment: 8, Practical: 6, Market: 4},
		ProductIdea: model.ProductIdea{
			Name:     "热点助手",
			Features: "实时追踪",
		},
	}
}

func sampleInput() Input {
	weibo, _ := model.LookupSource("weibo")
	return Input{
		Source:    weibo,
		Timestamp: "20260203_140509",
		Grades:    thresholds,
		Topics: []model.ScoredTopic{
			scored(1, 88, "春晚节目单", "优秀"),
			scored(2, 80, "<b>加粗</b>标题", ""),
			scored(3, 65, "天气预报", "良好"),
			scored(4, 30, "小事", "普通"),
		},
	}
}

func testLayout(t *testing.T, mutate func(*model.Config)) *paths.Layout {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	return paths.New(t.TempDir(), cfg)
}

func TestBuildView_GradeCounts(t *testing.T) {
	view := buildView(sampleInput())

	if view.Total != 4 || view.Excellent != 2 || view.Good != 1 || view.Average != 1 {
		t.Errorf("Unexpected counts: total=%d excellent=%d good=%d average=%d",
			view.Total, view.Excellent, view.Good, view.Average)
	}
	if view.DisplayTime != "2026-02-03 14:05:09" {
		t.Errorf("Unexpected display time: %s", view.DisplayTime)
	}

	second := view.Cards[1]
	if second.Class != "excellent" || second.Grade != "优秀" {
		t.Errorf("Expected grade derived from score for empty grade, got %+v", second)
	}
	if len(second.Scores) != 6 || second.Scores[0].Label != "新颖性" || second.Scores[0].Value != 15 {
		t.Errorf("Unexpected scores: %+v", second.Scores)
	}
}

func TestRender_Bundle(t *testing.T) {
	layout := testLayout(t, nil)
	bundle, err := NewRenderer(layout, 2).Render(sampleInput())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if filepath.Base(bundle.Report.Path) != "weibo_analysis_20260203_140509.html" {
		t.Errorf("Unexpected report path: %s", bundle.Report.Path)
	}
	if filepath.Base(bundle.Index.Path) != "index_weibo.html" {
		t.Errorf("Unexpected index path: %s", bundle.Index.Path)
	}
	if filepath.Base(bundle.JSON.Path) != "weibo_analysis_20260203_140509.json" {
		t.Errorf("Unexpected JSON path: %s", bundle.JSON.Path)
	}
	if string(bundle.Index.Data) != string(bundle.Report.Data) {
		t.Error("Expected index copy to match the report")
	}

	page := string(bundle.Report.Data)
	for _, want := range []string{
		"微博热搜产品创意分析",
		"#1 春晚节目单",
		"&lt;b&gt;加粗&lt;/b&gt;标题",
		"88分",
		"新颖性: 15",
		"💡 热点助手",
		"<strong>目标用户：</strong>N/A",
		"2026-02-03 14:05:09",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
	if strings.Contains(page, "<b>加粗</b>") {
		t.Error("Expected topic titles to be HTML-escaped")
	}

	var decoded []map[string]any
	if err := json.Unmarshal(bundle.JSON.Data, &decoded); err != nil {
		t.Fatalf("JSON artifact does not parse: %v", err)
	}
	if len(decoded) != 4 {
		t.Errorf("Expected 4 records, got %d", len(decoded))
	}
	if !strings.Contains(string(bundle.JSON.Data), "<b>加粗</b>") {
		t.Error("Expected JSON without HTML escaping")
	}
	if !strings.HasPrefix(string(bundle.JSON.Data), "[\n  {") {
		t.Errorf("Expected 2-space indent, got %q", string(bundle.JSON.Data)[:10])
	}
}

func TestRender_EmptyTopics(t *testing.T) {
	in := sampleInput()
	in.Topics = nil

	bundle, err := NewRenderer(testLayout(t, nil), 2).Render(in)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(bundle.JSON.Data) != "[]\n" {
		t.Errorf("Expected empty JSON array, got %q", bundle.JSON.Data)
	}
	if !strings.Contains(string(bundle.Report.Data), "没有可展示的话题") {
		t.Error("Expected empty-state message")
	}
}

func TestRender_SinglePlatformIndex(t *testing.T) {
	layout := testLayout(t, func(c *model.Config) { c.Report.SinglePlatform = true })
	bundle, err := NewRenderer(layout, 2).Render(sampleInput())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if filepath.Base(bundle.Index.Path) != "index.html" {
		t.Errorf("Expected index.html, got %s", bundle.Index.Path)
	}
}

func TestBundle_Write(t *testing.T) {
	layout := testLayout(t, nil)
	bundle, err := NewRenderer(layout, 2).Render(sampleInput())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if err := bundle.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	for _, f := range bundle.Files() {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			t.Fatalf("Expected %s to exist: %v", f.Path, err)
		}
		if string(data) != string(f.Data) {
			t.Errorf("Unexpected content in %s", f.Path)
		}
	}
}

func TestBundle_WriteIsAllOrNothing(t *testing.T) {
	layout := testLayout(t, nil)
	bundle, err := NewRenderer(layout, 2).Render(sampleInput())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// A directory in place of the JSON artifact makes the last rename fail.
	if err := os.MkdirAll(filepath.Join(bundle.JSON.Path, "blocker"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := bundle.Write(); err == nil {
		t.Fatal("Expected write error")
	}

	for _, p := range []string{bundle.Report.Path, bundle.Index.Path} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be rolled back, stat err = %v", p, err)
		}
	}

	entries, err := os.ReadDir(layout.DataDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only the blocking directory, got %v", names)
	}
}

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"20260203_140509", "2026-02-03 14:05:09"},
		{"latest", "latest"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DisplayTime(tt.input); got != tt.want {
			t.Errorf("DisplayTime(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}
