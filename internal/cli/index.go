package cli

import (
	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/report"
	"github.com/spf13/cobra"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the overview page linking the latest report of each platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		return writeIndex(a)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func writeIndex(a *app) error {
	file, err := report.BuildIndex(a.layout, model.Sources)
	if err != nil {
		return err
	}
	if err := a.layout.EnsureDataDir(); err != nil {
		return err
	}
	if err := file.Write(); err != nil {
		return err
	}
	a.out.Success("Index: %s", file.Path)
	return nil
}
