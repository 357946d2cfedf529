// Package config resolves the run configuration from built-in defaults, a
// YAML file, the environment and command-line overrides, in increasing order
// of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/keycool/hotsearch/internal/model"
	"github.com/spf13/viper"
)

// LoadOptions controls where Load looks for values.
type LoadOptions struct {
	// File is the YAML config file. A missing file is only an error when
	// Explicit is set (the user named it).
	File     string
	Explicit bool
	// Overrides are flag values keyed by option key. They win over everything.
	Overrides map[string]any
}

// Resolved is a loaded configuration plus enough provenance to explain it.
type Resolved struct {
	Config model.Config
	// File is the config file that was read, empty if none.
	File string

	v         *viper.Viper
	overrides map[string]any
}

// Load resolves and validates the configuration.
func Load(opts LoadOptions) (*Resolved, error) {
	v := newViper()

	if opts.File != "" {
		_, statErr := os.Stat(opts.File)
		switch {
		case statErr == nil:
			v.SetConfigFile(opts.File)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", opts.File, err)
			}
		case errors.Is(statErr, fs.ErrNotExist) && !opts.Explicit:
			// No config file is fine; defaults and env apply.
		default:
			return nil, fmt.Errorf("reading config %s: %w", opts.File, statErr)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &Resolved{
		Config:    *cfg,
		File:      v.ConfigFileUsed(),
		v:         v,
		overrides: opts.Overrides,
	}, nil
}

// Default returns the configuration with nothing but built-in defaults.
func Default() model.Config {
	v := viper.New()
	for _, o := range Options {
		v.SetDefault(o.Key, o.Default)
	}
	cfg, err := decode(v)
	if err != nil {
		// Options is static; a decode failure is a programming error.
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return *cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	for _, o := range Options {
		v.SetDefault(o.Key, o.Default)
		_ = v.BindEnv(append([]string{o.Key}, o.Env()...)...)
	}
	return v
}

func decode(v *viper.Viper) (*model.Config, error) {
	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
	return &cfg, nil
}

// Validate checks cross-field constraints Unmarshal cannot express.
func Validate(cfg *model.Config) error {
	if cfg.Analysis.TopicCount <= 0 {
		return fmt.Errorf("analysis.topic_count must be positive, got %d", cfg.Analysis.TopicCount)
	}

	r := cfg.Analysis.Scoring
	for name, limit := range map[string]int{
		"novelty": r.Novelty, "resonance": r.Resonance, "viral": r.Viral,
		"entertainment": r.Entertainment, "practical": r.Practical, "market": r.Market,
	} {
		if limit <= 0 {
			return fmt.Errorf("analysis.scoring.%s must be positive, got %d", name, limit)
		}
	}

	if cfg.Grades.Good < 0 || cfg.Grades.Excellent <= cfg.Grades.Good {
		return fmt.Errorf("grade thresholds must satisfy 0 <= good < excellent, got good=%d excellent=%d",
			cfg.Grades.Good, cfg.Grades.Excellent)
	}

	if cfg.API.TianAPI.MaxRetries < 1 {
		return fmt.Errorf("api.tianapi.max_retries must be at least 1, got %d", cfg.API.TianAPI.MaxRetries)
	}
	if cfg.API.TianAPI.RatePerSecond <= 0 {
		return fmt.Errorf("api.tianapi.rate_per_second must be positive, got %v", cfg.API.TianAPI.RatePerSecond)
	}

	validProviders := map[string]bool{"anthropic": true, "openai": true, "ollama": true}
	if !validProviders[cfg.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider: %s (must be anthropic, openai, or ollama)", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", cfg.LLM.MaxTokens)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warning": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warning, or error)", cfg.Logging.Level)
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Output.Color] {
		return fmt.Errorf("invalid output.color: %s (must be auto, always, or never)", cfg.Output.Color)
	}

	if cfg.Output.JSONIndent < 0 {
		return fmt.Errorf("output.json_indent must not be negative, got %d", cfg.Output.JSONIndent)
	}
	if cfg.Cleanup.Keep < 0 {
		return fmt.Errorf("cleanup.keep must not be negative, got %d", cfg.Cleanup.Keep)
	}
	if strings.TrimSpace(cfg.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must not be empty")
	}

	return nil
}
