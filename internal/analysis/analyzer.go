// Package analysis runs one analysis of a topic source: load the latest
// topics, ask the model to score them, repair and validate its answer, and
// write the report artifacts.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keycool/hotsearch/internal/llm"
	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/paths"
	"github.com/keycool/hotsearch/internal/prompt"
	"github.com/keycool/hotsearch/internal/repair"
	"github.com/keycool/hotsearch/internal/report"
	"github.com/keycool/hotsearch/internal/topics"
	"github.com/keycool/hotsearch/internal/util"
)

// Logger receives progress messages. *output.Printer satisfies it.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
}

// Analyzer wires the analysis stages together
type Analyzer struct {
	cfg      model.Config
	layout   *paths.Layout
	provider llm.Provider
	logger   Logger
	now      func() time.Time
}

// New creates an Analyzer
func New(cfg model.Config, layout *paths.Layout, provider llm.Provider, logger Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		layout:   layout,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Result describes a successful run
type Result struct {
	Source     model.Source
	TopicsFile string              // Input file
	Topics     []model.ScoredTopic // Validated topics, in model order
	Dropped    []string            // Why records were discarded
	Stage      repair.Stage
	Fired      []string // Repair rules that changed the text
	Bundle     *report.Bundle
}

// Run analyzes the latest topics of source. Artifacts are written only when
// every stage succeeds. When the response cannot be parsed, the returned
// error is a *repair.ParseError and a debug file is written next to the data.
func (a *Analyzer) Run(ctx context.Context, source model.Source) (*Result, error) {
	path, err := topics.Latest(a.layout.DataDir(), a.layout.RawPattern(source.ID))
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	file, err := topics.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	input := file.Head(a.cfg.Analysis.TopicCount)
	if len(input) == 0 {
		return nil, fmt.Errorf("load topics: %s contains no topics", path)
	}
	a.logger.Info("Analyzing %d %s topics from %s", len(input), source.Name, path)

	text, err := prompt.Build(prompt.Request{
		Source: source,
		Topics: input,
		Rubric: a.cfg.Analysis.Scoring,
		Grades: a.cfg.Grades,
	})
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	a.logger.Debug("prompt: %d bytes", len(text))

	start := time.Now()
	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:    text,
		Model:     a.cfg.LLM.Model,
		MaxTokens: a.cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("completion (%s): %w", a.provider.Name(), err)
	}
	a.logger.Debug("completion: model=%s tokens=%d stop=%s in %s",
		resp.Model, resp.TokensUsed, resp.StopReason, time.Since(start).Round(time.Millisecond))
	if resp.Truncated() {
		a.logger.Warning("Response hit the token limit (llm.max_tokens=%d); the output may be cut off", a.cfg.LLM.MaxTokens)
	}

	normalized, err := repair.Normalize(resp.Text)
	if err != nil {
		var perr *repair.ParseError
		if errors.As(err, &perr) {
			a.writeDebug(perr.Diagnostic)
		}
		return nil, err
	}
	if normalized.Stage != repair.StageStrict {
		a.logger.Debug("response parsed at %s stage (rules fired: %v)", normalized.Stage, normalized.Fired)
	}

	scored, dropped := reconcile(normalized.Records, input, a.cfg.Analysis.TopicCount, a.cfg.Grades)
	for _, reason := range dropped {
		a.logger.Warning("Dropped record: %s", reason)
	}

	bundle, err := report.NewRenderer(a.layout, a.cfg.Output.JSONIndent).Render(report.Input{
		Source:    source,
		Timestamp: a.now().Format(model.TimestampLayout),
		Topics:    scored,
		Grades:    a.cfg.Grades,
	})
	if err != nil {
		return nil, err
	}
	if err := a.layout.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if err := bundle.Write(); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	return &Result{
		Source:     source,
		TopicsFile: path,
		Topics:     scored,
		Dropped:    dropped,
		Stage:      normalized.Stage,
		Fired:      normalized.Fired,
		Bundle:     bundle,
	}, nil
}

// writeDebug persists a parse diagnostic. Failing to write it never
// replaces the parse error.
func (a *Analyzer) writeDebug(d *repair.Diagnostic) {
	path := a.layout.DebugFile(a.now().Format(model.TimestampLayout))
	if err := a.layout.EnsureDataDir(); err != nil {
		a.logger.Warning("Could not write debug file: %v", err)
		return
	}
	if err := util.WriteFileAtomic(path, []byte(d.String()), 0o644); err != nil {
		a.logger.Warning("Could not write debug file: %v", err)
		return
	}
	a.logger.Info("Raw response saved to %s", path)
}
