package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/keycool/hotsearch/internal/cache"
	"github.com/keycool/hotsearch/internal/hotsearch"
	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/output"
	"github.com/keycool/hotsearch/internal/worker"
	"github.com/spf13/cobra"
)

var (
	fetchSource string
	apiKey      string
	noCache     bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the current hot-search list of a platform",
	Long: `Fetch downloads the current hot-search topics from TianAPI and saves them
as {source}_raw_{timestamp}.json in the data directory.

Example:
  hotsearch fetch --source weibo
  hotsearch fetch --source all --no-cache`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchSource, "source", "s", "weibo", "platform: weibo, douyin, wechat or all")
	addFetchFlags(fetchCmd)
}

// addFetchFlags registers the flags shared by fetch and run
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&apiKey, "api-key", "", "TianAPI key (overrides TIANAPI_KEY)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
}

func fetchOverrides() map[string]any {
	overrides := make(map[string]any)
	if apiKey != "" {
		overrides["api.tianapi.key"] = apiKey
	}
	return overrides
}

func runFetch(cmd *cobra.Command, args []string) error {
	sources, err := parseSources(fetchSource, true)
	if err != nil {
		return err
	}
	a, err := setup(cmd, fetchOverrides())
	if err != nil {
		return err
	}
	client, err := newFetchClient(a)
	if err != nil {
		return err
	}
	_, err = fetchSources(cmd.Context(), a, client, sources)
	return err
}

func newFetchClient(a *app) (*hotsearch.Client, error) {
	api := a.cfg.API.TianAPI
	opts := hotsearch.Options{
		APIKey:     api.Key,
		Endpoints:  api.Sources,
		Timeout:    api.Timeout,
		MaxRetries: api.MaxRetries,
		Limiter:    worker.NewLimiter(api.RatePerSecond, 1),
		Logger:     a.out,
	}
	if a.cfg.Cache.Enabled && !noCache {
		opts.Cache = cache.NewLayeredCache(a.layout.CacheDir(), a.cfg.Cache.TTL)
		opts.CacheTTL = a.cfg.Cache.TTL
	}
	return hotsearch.NewClient(opts)
}

// fetchSources fetches every source concurrently and prints one line per
// source. It fails if any source failed; the per-source results are returned
// either way.
func fetchSources(ctx context.Context, a *app, client *hotsearch.Client, sources []model.Source) ([]*worker.SourceResult, error) {
	ids := make([]string, 0, len(sources))
	for _, src := range sources {
		ids = append(ids, src.ID)
		a.out.Info("%s Fetching %s hot-search topics...", src.Icon, src.Name)
	}

	results := client.FetchAll(ctx, ids, a.layout, a.cfg.Output.JSONIndent)

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			a.out.Error("%s: %v", res.Source, res.Error)
			continue
		}
		a.out.Success("%s: saved %s (%s)", res.Source, res.Path, res.Duration.Round(time.Millisecond))
	}

	if len(results) > 1 {
		printFetchTable(a.out, results)
	}
	if failed > 0 {
		return results, fmt.Errorf("fetch failed for %d of %d sources", failed, len(results))
	}
	return results, nil
}

func printFetchTable(out *output.Printer, results []*worker.SourceResult) {
	table := output.NewTable(out.Out(), []string{"Source", "Status", "File"})
	for _, res := range results {
		status, file := "ok", res.Path
		if res.Error != nil {
			status, file = "failed", "-"
		}
		table.AddRow(res.Source, status, file)
	}
	if err := table.Render(); err != nil {
		out.Warning("render table: %v", err)
	}
}
