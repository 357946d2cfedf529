package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/keycool/hotsearch/internal/analysis"
	"github.com/keycool/hotsearch/internal/llm"
	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/output"
	"github.com/spf13/cobra"
)

var (
	analyzeSource string
	llmProvider   string
	llmModel      string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the latest fetched topics and render the report",
	Long: `Analyze loads the newest raw topics file of a platform, asks the language
model to score every topic and propose a product idea, and writes:
- {source}_analysis_{timestamp}.html (the report)
- index_{source}.html (a copy of the latest report)
- {source}_analysis_{timestamp}.json (the scored topics)

If the model's answer cannot be parsed, the raw response is saved as
debug_json_{timestamp}.txt and nothing else is written.

Example:
  hotsearch analyze --source weibo
  hotsearch analyze --source douyin --llm-provider openai --llm-model gpt-4o-mini`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeSource, "source", "s", "weibo", "platform: weibo, douyin or wechat")
	addLLMFlags(analyzeCmd)
}

// addLLMFlags registers the flags shared by analyze and run
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (anthropic, openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func llmOverrides(overrides map[string]any) map[string]any {
	if overrides == nil {
		overrides = make(map[string]any)
	}
	if llmProvider != "" {
		overrides["llm.provider"] = llmProvider
	}
	if llmModel != "" {
		overrides["llm.model"] = llmModel
	}
	return overrides
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	sources, err := parseSources(analyzeSource, false)
	if err != nil {
		return err
	}
	a, err := setup(cmd, llmOverrides(nil))
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(a)
	if err != nil {
		return err
	}
	return analyzeSourceReport(cmd.Context(), a, analyzer, sources[0])
}

func newAnalyzer(a *app) (*analysis.Analyzer, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(a.cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	a.out.Debug("LLM provider: %s, model: %s", provider.Name(), a.cfg.LLM.Model)
	return analysis.New(a.cfg, a.layout, provider, a.out), nil
}

func analyzeSourceReport(ctx context.Context, a *app, analyzer *analysis.Analyzer, src model.Source) error {
	res, err := analyzer.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", src.ID, err)
	}

	printSummary(a.out, a.cfg.Grades, res)
	a.out.Success("Report: %s", res.Bundle.Report.Path)
	a.out.Success("Data:   %s", res.Bundle.JSON.Path)
	return nil
}

// topRows is how many topics the console summary lists
const topRows = 5

func printSummary(out *output.Printer, grades model.GradeThresholds, res *analysis.Result) {
	counts := make(map[model.Grade]int)
	for _, t := range res.Topics {
		counts[grades.For(int(t.TotalScore))]++
	}

	out.Header(fmt.Sprintf("%s %s热搜分析", res.Source.Icon, res.Source.Name))
	out.Print("%s %d · %s %d · %s %d (total %d)",
		model.GradeExcellent.Label(), counts[model.GradeExcellent],
		model.GradeGood.Label(), counts[model.GradeGood],
		model.GradeAverage.Label(), counts[model.GradeAverage],
		len(res.Topics))
	if len(res.Dropped) > 0 {
		out.Warning("%d records from the model were discarded", len(res.Dropped))
	}

	n := min(topRows, len(res.Topics))
	if n == 0 {
		return
	}
	table := output.NewTable(out.Out(), []string{"Rank", "Title", "Score", "Grade", "Idea"})
	for _, t := range res.Topics[:n] {
		table.AddRow(strconv.Itoa(int(t.Rank)), t.Title, strconv.Itoa(int(t.TotalScore)), t.Grade, string(t.ProductIdea.Name))
	}
	if err := table.Render(); err != nil {
		out.Warning("render table: %v", err)
	}
}
