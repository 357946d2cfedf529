package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runSource string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, analyze and rebuild the index in one go",
	Long: `Run is fetch, analyze and index back to back. With --source all every
platform is fetched concurrently and then analyzed one after another; a
platform that fails does not stop the others.

Example:
  hotsearch run --source weibo
  hotsearch run --source all`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runSource, "source", "s", "weibo", "platform: weibo, douyin, wechat or all")
	addFetchFlags(runCmd)
	addLLMFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	sources, err := parseSources(runSource, true)
	if err != nil {
		return err
	}
	a, err := setup(cmd, llmOverrides(fetchOverrides()))
	if err != nil {
		return err
	}
	client, err := newFetchClient(a)
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(a)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	results, _ := fetchSources(ctx, a, client, sources)

	failed := 0
	for i, src := range sources {
		// Analyzing an older file would pass stale topics off as current.
		if results[i].Error != nil {
			failed++
			continue
		}
		if err := analyzeSourceReport(ctx, a, analyzer, src); err != nil {
			failed++
			a.out.Error("%v", err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	if err := writeIndex(a); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("run failed for %d of %d sources", failed, len(sources))
	}
	return nil
}
