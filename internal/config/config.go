// Package config loads application configuration from config.yaml and
// CLAIMS_-prefixed environment variables, and owns the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Index      IndexConfig      `yaml:"index" mapstructure:"index"`
	Embed      EmbedConfig      `yaml:"embed" mapstructure:"embed"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	News       NewsConfig       `yaml:"news" mapstructure:"news"`
	Judge      JudgeConfig      `yaml:"judge" mapstructure:"judge"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// IndexConfig points at the evidence store artifacts produced by the
// offline ingestion build.
type IndexConfig struct {
	VectorPath string `yaml:"vector_path" mapstructure:"vector_path"`
	MetaPath   string `yaml:"meta_path" mapstructure:"meta_path"`
}

// EmbedConfig holds embedding endpoint settings. BaseURL may point at any
// OpenAI-compatible server, including local ones.
type EmbedConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ExtractionConfig tunes the claim extraction pipeline.
type ExtractionConfig struct {
	RetrieveTopK       int `yaml:"retrieve_top_k" mapstructure:"retrieve_top_k"`
	CompanyTopN        int `yaml:"company_top_n" mapstructure:"company_top_n"`
	PassagesPerCompany int `yaml:"passages_per_company" mapstructure:"passages_per_company"`
	ExcerptMaxLen      int `yaml:"excerpt_max_len" mapstructure:"excerpt_max_len"`
	MaxAttempts        int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// NewsConfig tunes the press-coverage harvester.
type NewsConfig struct {
	Locale            string   `yaml:"locale" mapstructure:"locale"`
	Country           string   `yaml:"country" mapstructure:"country"`
	Edition           string   `yaml:"edition" mapstructure:"edition"`
	QueryTemplates    []string `yaml:"query_templates" mapstructure:"query_templates"`
	TemplatesFile     string   `yaml:"templates_file" mapstructure:"templates_file"`
	ItemsPerFeed      int      `yaml:"items_per_feed" mapstructure:"items_per_feed"`
	RerankTopK        int      `yaml:"rerank_top_k" mapstructure:"rerank_top_k"`
	RequestsPerSecond float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// JudgeConfig tunes the narrative assessment.
type JudgeConfig struct {
	BriefLimit int `yaml:"brief_limit" mapstructure:"brief_limit"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLAIMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("index.vector_path", "index_out/vectors.bin")
	v.SetDefault("index.meta_path", "index_out/meta.json")
	v.SetDefault("embed.model", "text-embedding-3-small")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("extraction.retrieve_top_k", 500)
	v.SetDefault("extraction.company_top_n", 5)
	v.SetDefault("extraction.passages_per_company", 30)
	v.SetDefault("extraction.excerpt_max_len", 160)
	v.SetDefault("extraction.max_attempts", 2)
	v.SetDefault("news.locale", "zh-TW")
	v.SetDefault("news.country", "TW")
	v.SetDefault("news.edition", "TW:zh-Hant")
	v.SetDefault("news.items_per_feed", 50)
	v.SetDefault("news.rerank_top_k", 12)
	v.SetDefault("news.requests_per_second", 2)
	v.SetDefault("judge.brief_limit", 30)
	v.SetDefault("store.path", "claims.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
