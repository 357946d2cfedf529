package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keycool/hotsearch/internal/config"
	"github.com/keycool/hotsearch/internal/hotsearch"
	"github.com/keycool/hotsearch/internal/model"
	"github.com/keycool/hotsearch/internal/output"
	"github.com/keycool/hotsearch/internal/paths"
	"github.com/keycool/hotsearch/internal/repair"
	"github.com/keycool/hotsearch/internal/topics"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "dev"

var (
	cfgFile   string
	rootDir   string
	verbose   bool
	colorMode string
)

// printer is replaced once the configuration is known
var printer = output.NewPrinter(output.PrinterOptions{})

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hotsearch",
	Short: "Hot-search topic analysis for Weibo, Douyin and WeChat",
	Long: `hotsearch fetches hot-search topic lists from TianAPI, asks a language
model to score each topic and propose a product idea, and renders the
results as static HTML reports with an index page.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HOTSEARCH_*, plus TIANAPI_KEY, MODEL_ID, ANTHROPIC_*)
3. Config file (config/config.yaml under the project root)
4. Defaults`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Errors are reported here, once.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printer.FormatError(err, hint(err))
	}
	return err
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hotsearch %s\n", Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <root>/config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (default: detected from the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colored output: auto, always or never")

	rootCmd.AddCommand(versionCmd)
}

// app is the per-run environment shared by the subcommands
type app struct {
	root     string
	resolved *config.Resolved
	cfg      model.Config
	layout   *paths.Layout
	out      *output.Printer
}

// setup resolves the project root and configuration. overrides carries
// command-specific flag values keyed by option key.
func setup(cmd *cobra.Command, overrides map[string]any) (*app, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}

	if overrides == nil {
		overrides = make(map[string]any)
	}
	if cmd.Flags().Changed("color") {
		overrides["output.color"] = colorMode
	}
	if verbose {
		overrides["logging.level"] = "debug"
	}

	file := cfgFile
	if file == "" {
		file = paths.ConfigFile(root)
	}

	resolved, err := config.Load(config.LoadOptions{
		File:      file,
		Explicit:  cfgFile != "",
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}
	cfg := resolved.Config

	mode, err := output.ParseColorMode(cfg.Output.Color)
	if err != nil {
		return nil, err
	}
	level, err := output.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	printer = output.NewPrinter(output.PrinterOptions{
		ColorMode: mode,
		Level:     level,
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
	})

	a := &app{
		root:     root,
		resolved: resolved,
		cfg:      cfg,
		layout:   paths.New(root, cfg),
		out:      printer,
	}
	if resolved.File != "" {
		a.out.Debug("Using config file: %s", resolved.File)
	}
	a.out.Debug("Project root: %s", root)
	return a, nil
}

// resolveRoot returns --root, or the project root detected from the
// working directory
func resolveRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return paths.DetectRoot(wd), nil
}

// parseSources accepts a source ID or "all"
func parseSources(value string, allowAll bool) ([]model.Source, error) {
	if allowAll && value == "all" {
		return model.Sources, nil
	}
	src, ok := model.LookupSource(value)
	if !ok {
		valid := model.SourceIDs()
		if allowAll {
			valid = append(valid, "all")
		}
		return nil, fmt.Errorf("unknown source %q (valid: %v)", value, valid)
	}
	return []model.Source{src}, nil
}

// hint suggests a next step for errors the user can act on
func hint(err error) string {
	var perr *repair.ParseError
	switch {
	case errors.Is(err, topics.ErrNoTopicsFile):
		return "run 'hotsearch fetch --source <source>' first"
	case errors.Is(err, hotsearch.ErrMissingAPIKey):
		return "export TIANAPI_KEY=... or set api.tianapi.key in config/config.yaml"
	case errors.As(err, &perr):
		return "look for a debug_json_*.txt file in the data directory"
	default:
		return ""
	}
}
