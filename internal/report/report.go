// Package report renders analysis results to HTML and JSON artifacts.
package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/paths"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Input is everything a report is rendered from
type Input struct {
	Source    model.Source
	Timestamp string // YYYYMMDD_HHMMSS, shared by every artifact of the run
	Topics    []model.ScoredTopic
	Grades    model.GradeThresholds
}

// Renderer builds report bundles for one data directory
type Renderer struct {
	layout     *paths.Layout
	jsonIndent int
}

// NewRenderer creates a Renderer
func NewRenderer(layout *paths.Layout, jsonIndent int) *Renderer {
	return &Renderer{layout: layout, jsonIndent: jsonIndent}
}

type gradeLabels struct {
	Excellent, Good, Average string
}

type scoreView struct {
	Label string
	Value int
}

type cardView struct {
	Rank       int
	Title      string
	Class      string
	Grade      string
	TotalScore int
	Scores     []scoreView
	Idea       model.ProductIdea
}

type reportView struct {
	Source      model.Source
	DisplayTime string
	Grades      model.GradeThresholds
	Labels      gradeLabels
	Total       int
	Excellent   int
	Good        int
	Average     int
	Cards       []cardView
}

// Render builds the report, its index copy and the JSON artifact in memory.
// Nothing touches the disk until Bundle.Write.
func (r *Renderer) Render(in Input) (*Bundle, error) {
	view := buildView(in)

	var page bytes.Buffer
	if err := templates.ExecuteTemplate(&page, "report.html.tmpl", view); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	data, err := encodeJSON(in.Topics, r.jsonIndent)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}

	return &Bundle{
		Report: File{Path: r.layout.ReportFile(in.Source.ID, in.Timestamp), Data: page.Bytes()},
		Index:  File{Path: r.layout.IndexFile(in.Source.ID), Data: page.Bytes()},
		JSON:   File{Path: r.layout.AnalysisFile(in.Source.ID, in.Timestamp), Data: data},
	}, nil
}

func buildView(in Input) reportView {
	view := reportView{
		Source:      in.Source,
		DisplayTime: DisplayTime(in.Timestamp),
		Grades:      in.Grades,
		Labels: gradeLabels{
			Excellent: model.GradeExcellent.Label(),
			Good:      model.GradeGood.Label(),
			Average:   model.GradeAverage.Label(),
		},
		Total: len(in.Topics),
		Cards: make([]cardView, 0, len(in.Topics)),
	}

	for _, topic := range in.Topics {
		score := int(topic.TotalScore)
		grade := in.Grades.For(score)
		switch grade {
		case model.GradeExcellent:
			view.Excellent++
		case model.GradeGood:
			view.Good++
		default:
			view.Average++
		}

		label := topic.Grade
		if label == "" {
			label = grade.Label()
		}

		view.Cards = append(view.Cards, cardView{
			Rank:       int(topic.Rank),
			Title:      topic.Title,
			Class:      string(grade),
			Grade:      label,
			TotalScore: score,
			Scores:     scoreViews(topic.Scores),
			Idea:       topic.ProductIdea,
		})
	}
	return view
}

func scoreViews(s model.Scores) []scoreView {
	return []scoreView{
		{"新颖性", int(s.Novelty)},
		{"情感共鸣", int(s.Resonance)},
		{"传播潜力", int(s.Viral)},
		{"娱乐价值", int(s.Entertainment)},
		{"实用价值", int(s.Practical)},
		{"市场潜力", int(s.Market)},
	}
}

func encodeJSON(topics []model.ScoredTopic, indent int) ([]byte, error) {
	if topics == nil {
		topics = []model.ScoredTopic{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(topics); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DisplayTime formats a YYYYMMDD_HHMMSS timestamp for humans. Anything else
// is returned unchanged.
func DisplayTime(ts string) string {
	t, err := time.ParseInLocation(model.TimestampLayout, ts, time.Local)
	if err != nil {
		return ts
	}
	return t.Format(model.DisplayTimeLayout)
}
