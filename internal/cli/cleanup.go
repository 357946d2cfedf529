package cli

import (
	"errors"
	"os"

	"github.com/keycool/hotsearch/internal/cache"
	"github.com/keycool/hotsearch/internal/cleanup"
	"github.com/spf13/cobra"
)

var (
	cleanupKeep   int
	cleanupPrefix string
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old temporary files from the project root",
	Long: `Cleanup deletes temporary files whose name starts with the configured
prefix from the project root, keeping the newest ones, and prunes expired
entries from the fetch cache.

Example:
  hotsearch cleanup
  hotsearch cleanup --keep 5 --prefix tmpclaude-`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVar(&cleanupKeep, "keep", 3, "number of newest files to keep")
	cleanupCmd.Flags().StringVar(&cleanupPrefix, "prefix", "tmpclaude-", "file name prefix of temporary files")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	overrides := make(map[string]any)
	if cmd.Flags().Changed("keep") {
		overrides["cleanup.keep"] = cleanupKeep
	}
	if cmd.Flags().Changed("prefix") {
		overrides["cleanup.prefix"] = cleanupPrefix
	}
	a, err := setup(cmd, overrides)
	if err != nil {
		return err
	}

	prefix, keep := a.cfg.Cleanup.Prefix, a.cfg.Cleanup.Keep
	a.out.Info("Checking %s for %s* files", a.root, prefix)

	res, err := cleanup.Sweep(a.root, prefix, keep)
	if err != nil {
		return err
	}

	switch {
	case res.Found == 0:
		a.out.Success("No temporary files found")
	case res.Found <= keep:
		a.out.Success("%d temporary files, keeping up to %d: nothing to delete", res.Found, keep)
	default:
		for _, name := range res.Kept {
			a.out.Debug("kept %s", name)
		}
		for _, name := range res.Deleted {
			a.out.Debug("deleted %s", name)
		}
		for _, f := range res.Failed {
			a.out.Warning("could not delete %s: %v", f.Name, f.Err)
		}
		a.out.Success("Deleted %d of %d temporary files, kept %d", len(res.Deleted), res.Found, len(res.Kept))
	}

	pruneCache(a)
	return nil
}

func pruneCache(a *app) {
	dir := a.layout.CacheDir()
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return
	}
	n, err := cache.NewDiskCache(dir, a.cfg.Cache.TTL).Prune()
	if err != nil {
		a.out.Warning("prune cache: %v", err)
		return
	}
	if n > 0 {
		a.out.Success("Pruned %d expired cache entries", n)
	}
}
