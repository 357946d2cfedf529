package config

import (
	"strings"
	"time"
)

// EnvPrefix prefixes the generic environment override of every option:
// api.tianapi.key is read from HOTSEARCH_API_TIANAPI_KEY.
const EnvPrefix = "HOTSEARCH"

// Option is one recognized configuration key.
type Option struct {
	Key         string
	Default     any
	Description string
	// Legacy lists extra environment variables, checked after the generic one.
	Legacy []string
	// Secret values are masked by Rows.
	Secret bool
}

// Env returns the environment variables read for the option, in priority order.
func (o Option) Env() []string {
	generic := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(o.Key, ".", "_"))
	return append([]string{generic}, o.Legacy...)
}

// Options is the complete configuration schema. It seeds defaults and
// environment bindings and is what `config show` prints.
var Options = []Option{
	{Key: "api.tianapi.key", Default: "", Description: "TianAPI key", Legacy: []string{"TIANAPI_KEY"}, Secret: true},
	{Key: "api.tianapi.timeout", Default: 30 * time.Second, Description: "Per-request timeout for hot-search fetches"},
	{Key: "api.tianapi.max_retries", Default: 3, Description: "Fetch attempts before giving up"},
	{Key: "api.tianapi.rate_per_second", Default: 2.0, Description: "Request rate against the TianAPI host"},
	{Key: "api.tianapi.sources.weibo", Default: "https://apis.tianapi.com/weibohot/index", Description: "Weibo hot-search endpoint"},
	{Key: "api.tianapi.sources.douyin", Default: "https://apis.tianapi.com/douyinhot/index", Description: "Douyin hot-search endpoint"},
	{Key: "api.tianapi.sources.wechat", Default: "https://apis.tianapi.com/wxhottopic/index", Description: "WeChat hot-topic endpoint"},

	{Key: "analysis.topic_count", Default: 20, Description: "Topics sent to the model", Legacy: []string{"WEIBO_SKILL_TOPIC_COUNT"}},
	{Key: "analysis.scoring.novelty", Default: 20, Description: "Maximum novelty points"},
	{Key: "analysis.scoring.resonance", Default: 20, Description: "Maximum emotional resonance points"},
	{Key: "analysis.scoring.viral", Default: 20, Description: "Maximum viral potential points"},
	{Key: "analysis.scoring.entertainment", Default: 20, Description: "Maximum entertainment points"},
	{Key: "analysis.scoring.practical", Default: 10, Description: "Maximum practical value points"},
	{Key: "analysis.scoring.market", Default: 10, Description: "Maximum market potential points"},

	{Key: "grades.excellent", Default: 80, Description: "Minimum total score graded excellent"},
	{Key: "grades.good", Default: 60, Description: "Minimum total score graded good"},

	{Key: "llm.provider", Default: "anthropic", Description: "Completion provider (anthropic, openai, ollama)"},
	{Key: "llm.model", Default: "glm-4.6", Description: "Model ID", Legacy: []string{"MODEL_ID"}},
	{Key: "llm.api_key", Default: "", Description: "Completion API key", Legacy: []string{"ANTHROPIC_API_KEY", "ANTHROPIC_AUTH_TOKEN", "OPENAI_API_KEY"}, Secret: true},
	{Key: "llm.base_url", Default: "", Description: "Completion endpoint override", Legacy: []string{"ANTHROPIC_BASE_URL", "OPENAI_BASE_URL", "OLLAMA_BASE_URL"}},
	{Key: "llm.max_tokens", Default: 16000, Description: "Response token budget"},
	{Key: "llm.timeout", Default: 5 * time.Minute, Description: "Completion call timeout"},

	{Key: "paths.data_dir", Default: "data", Description: "Data directory, relative to the project root", Legacy: []string{"WEIBO_SKILL_DATA_DIR"}},
	{Key: "paths.raw_filename_format", Default: "{source}_raw_{timestamp}.json", Description: "Raw topics file name"},
	{Key: "paths.report_filename_format", Default: "{source}_analysis_{timestamp}.html", Description: "HTML report file name"},

	{Key: "output.intermediate_filename", Default: "{source}_analysis_{timestamp}.json", Description: "JSON result file name"},
	{Key: "output.json_indent", Default: 2, Description: "Indent of written JSON files"},
	{Key: "output.color", Default: "auto", Description: "Console color (auto, always, never)"},

	{Key: "report.single_platform", Default: false, Description: "Copy reports to index.html instead of index_{source}.html"},

	{Key: "cache.enabled", Default: true, Description: "Cache raw fetch responses"},
	{Key: "cache.ttl", Default: 10 * time.Minute, Description: "Fetch cache lifetime"},
	{Key: "cache.dir", Default: "", Description: "Fetch cache directory (default <data_dir>/.cache)"},

	{Key: "cleanup.prefix", Default: "tmpclaude-", Description: "Name prefix of temporary files swept by cleanup"},
	{Key: "cleanup.keep", Default: 3, Description: "Newest temporary files kept by cleanup"},

	{Key: "logging.level", Default: "info", Description: "Console verbosity (debug, info, warning, error)", Legacy: []string{"WEIBO_SKILL_LOG_LEVEL"}},
}

// Lookup returns the option registered for key.
func Lookup(key string) (Option, bool) {
	for _, o := range Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}
