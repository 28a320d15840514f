package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/knowval/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is overridden at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	dataDir string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "knowval",
	Short: "knowval - knowledge snapshot validation against reference policies",
	Long: `knowval checks a snapshot of a knowledge base (entities, facts, relations,
source documents) against a reference policy and reports what is stale,
unsourced, unreliable, contradictory or structurally suspicious.

Every report is deterministic. When an LLM provider is configured, a
natural-language narrative is attached as well; if the provider fails the
report simply stays deterministic.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "knowval %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.knowval/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides data.dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	_ = viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.knowval")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// KNOWVAL_LLM_PROVIDER overrides llm.provider
	viper.SetEnvPrefix("KNOWVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so env overrides and Unmarshal see them
func setDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("data.examples_dir", d.Data.ExamplesDir)
	v.SetDefault("data.history_backend", d.Data.HistoryBackend)
	v.SetDefault("data.history_limit", d.Data.HistoryLimit)
	v.SetDefault("data.cache_ttl", d.Data.CacheTTL)
	v.SetDefault("data.watch", d.Data.Watch)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.requests_per_second", d.LLM.RequestsPerSecond)
	v.SetDefault("llm.burst", d.LLM.Burst)
	v.SetDefault("llm.http_proxy", d.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", d.LLM.HTTPSProxy)

	v.SetDefault("schedule.cron", d.Schedule.Cron)
	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}

// loadConfig resolves the effective configuration
func loadConfig(v *viper.Viper) (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}
	applyEnvFallbacks(&cfg, os.Getenv)
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// applyEnvFallbacks fills provider credentials from the conventional
// environment variables when the config leaves them empty
func applyEnvFallbacks(cfg *model.Config, getenv func(string) string) {
	if cfg.LLM.APIKey == "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "openai":
			cfg.LLM.APIKey = getenv("OPENAI_API_KEY")
		case "groq":
			cfg.LLM.APIKey = getenv("GROQ_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.LLM.BaseURL == "" && strings.ToLower(cfg.LLM.Provider) == "ollama" {
		cfg.LLM.BaseURL = getenv("OLLAMA_BASE_URL")
	}
}
