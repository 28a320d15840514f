package model

import "time"

// Config holds all knowval settings
type Config struct {
	Data        DataConfig        `mapstructure:"data" yaml:"data"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Schedule    ScheduleConfig    `mapstructure:"schedule" yaml:"schedule"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
}

// DataConfig locates the persisted records
type DataConfig struct {
	Dir            string        `mapstructure:"dir" yaml:"dir"`
	ExamplesDir    string        `mapstructure:"examples_dir" yaml:"examples_dir"`       // Defaults to <dir>/examples
	HistoryBackend string        `mapstructure:"history_backend" yaml:"history_backend"` // file or sqlite
	HistoryLimit   int           `mapstructure:"history_limit" yaml:"history_limit"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Watch          bool          `mapstructure:"watch" yaml:"watch"` // Evict cached records on external edits
}

// ServerConfig configures the REST API
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	BodyLimit    int           `mapstructure:"body_limit" yaml:"body_limit"` // Bytes
}

// LLMConfig configures the optional narrative provider
type LLMConfig struct {
	Provider          string        `mapstructure:"provider" yaml:"provider"` // openai, groq, anthropic, ollama; empty disables
	Model             string        `mapstructure:"model" yaml:"model"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
	HTTPProxy         string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy        string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
}

// ScheduleConfig configures periodic validation in serve mode
type ScheduleConfig struct {
	Cron string `mapstructure:"cron" yaml:"cron"` // Standard 5-field spec; empty disables
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json or console
}

// MetricsConfig configures the Prometheus collector
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Dir:            "data",
			HistoryBackend: "file",
			HistoryLimit:   100,
			CacheTTL:       5 * time.Minute,
			Watch:          true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			BodyLimit:    4 * 1024 * 1024,
		},
		LLM: LLMConfig{
			Provider:          "",
			Timeout:           20 * time.Second,
			MaxTokens:         800,
			Temperature:       0.2,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "knowval",
		},
	}
}

// ExamplesPath resolves the examples directory
func (d DataConfig) ExamplesPath() string {
	if d.ExamplesDir != "" {
		return d.ExamplesDir
	}
	return d.Dir + "/examples"
}
