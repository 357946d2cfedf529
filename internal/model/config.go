package model

import "time"

// Config is the resolved configuration for one run. It is built once by the
// config package and passed by value afterwards.
type Config struct {
	API      APIConfig       `mapstructure:"api" yaml:"api"`
	Analysis AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Grades   GradeThresholds `mapstructure:"grades" yaml:"grades"`
	LLM      LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Paths    PathsConfig     `mapstructure:"paths" yaml:"paths"`
	Output   OutputConfig    `mapstructure:"output" yaml:"output"`
	Report   ReportConfig    `mapstructure:"report" yaml:"report"`
	Cache    CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Cleanup  CleanupConfig   `mapstructure:"cleanup" yaml:"cleanup"`
	Logging  LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

type APIConfig struct {
	TianAPI TianAPIConfig `mapstructure:"tianapi" yaml:"tianapi"`
}

// TianAPIConfig configures the hot-search aggregator.
type TianAPIConfig struct {
	Key           string            `mapstructure:"key" yaml:"key"`
	Timeout       time.Duration     `mapstructure:"timeout" yaml:"timeout"`                 // Per-request timeout
	MaxRetries    int               `mapstructure:"max_retries" yaml:"max_retries"`         // Attempts per fetch, not extra retries
	RatePerSecond float64           `mapstructure:"rate_per_second" yaml:"rate_per_second"` // Requests per second against the API host
	Sources       map[string]string `mapstructure:"sources" yaml:"sources"`                 // Source ID -> endpoint URL
}

type AnalysisConfig struct {
	TopicCount int    `mapstructure:"topic_count" yaml:"topic_count"` // Topics sent to the model
	Scoring    Rubric `mapstructure:"scoring" yaml:"scoring"`
}

// Rubric holds the maximum points per scoring dimension.
type Rubric struct {
	Novelty       int `mapstructure:"novelty" yaml:"novelty"`
	Resonance     int `mapstructure:"resonance" yaml:"resonance"`
	Viral         int `mapstructure:"viral" yaml:"viral"`
	Entertainment int `mapstructure:"entertainment" yaml:"entertainment"`
	Practical     int `mapstructure:"practical" yaml:"practical"`
	Market        int `mapstructure:"market" yaml:"market"`
}

// Interesting is the maximum of the four "interesting" dimensions.
func (r Rubric) Interesting() int {
	return r.Novelty + r.Resonance + r.Viral + r.Entertainment
}

// Useful is the maximum of the two "useful" dimensions.
func (r Rubric) Useful() int {
	return r.Practical + r.Market
}

type LLMConfig struct {
	Provider  string        `mapstructure:"provider" yaml:"provider"` // anthropic, openai or ollama
	Model     string        `mapstructure:"model" yaml:"model"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type PathsConfig struct {
	DataDir              string `mapstructure:"data_dir" yaml:"data_dir"`
	RawFilenameFormat    string `mapstructure:"raw_filename_format" yaml:"raw_filename_format"`
	ReportFilenameFormat string `mapstructure:"report_filename_format" yaml:"report_filename_format"`
}

type OutputConfig struct {
	IntermediateFilename string `mapstructure:"intermediate_filename" yaml:"intermediate_filename"`
	JSONIndent           int    `mapstructure:"json_indent" yaml:"json_indent"`
	Color                string `mapstructure:"color" yaml:"color"` // auto, always or never
}

type ReportConfig struct {
	SinglePlatform bool `mapstructure:"single_platform" yaml:"single_platform"` // Write index.html instead of index_{source}.html
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Dir     string        `mapstructure:"dir" yaml:"dir"` // Empty means <data_dir>/.cache
}

type CleanupConfig struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Keep   int    `mapstructure:"keep" yaml:"keep"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warning or error
}
