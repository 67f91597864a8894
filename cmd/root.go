package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/fetch"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/server"
	"github.com/spigell/resume-screener/internal/store"
)

const (
	app       = "resume-screener"
	envPrefix = "SCREENER"
)

type Config struct {
	Database     string        `mapstructure:"database"`
	ExcludeFile  string        `mapstructure:"exclude-file"`
	ExcludeNames []string      `mapstructure:"exclude-names"`
	AI           *AIConfig     `mapstructure:"ai"`
	Batch        *BatchConfig  `mapstructure:"batch"`
	Fetch        *FetchConfig  `mapstructure:"fetch"`
	Server       *ServerConfig `mapstructure:"server"`
}

type AIConfig struct {
	Provider          string        `mapstructure:"provider"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	MaxLogLength      int           `mapstructure:"max-log-length"`
	Azure             *AzureConfig  `mapstructure:"azure"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
}

// AzureConfig seeds the endpoint part of the stored settings on first run.
type AzureConfig struct {
	Endpoint   string `mapstructure:"endpoint"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Deployment string `mapstructure:"deployment"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type BatchConfig struct {
	MaxConcurrent int `mapstructure:"max-concurrent"`
}

type FetchConfig struct {
	UserAgent      string        `mapstructure:"user-agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Browser        bool          `mapstructure:"browser"`
	BrowserTimeout time.Duration `mapstructure:"browser-timeout"`
	RenderWait     time.Duration `mapstructure:"render-wait"`
	// Delay is the pause between consecutive remote pages.
	Delay      time.Duration `mapstructure:"delay"`
	CookieFile string        `mapstructure:"cookie-file"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener extracts candidates from recruiting sites and ranks them with an LLM",
		Long: "resume-screener reads candidate pages from Boss直聘, 猎聘 and 智联招聘, " +
			"scores each candidate against hiring criteria with a language model and ranks the results.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("database", "", "path to the sqlite database")

	mustBindFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	mustBindFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	mustBindFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	setDefaults(viper.GetViper())
}

// bindFlag ties a config key to a command flag.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag is not defined", key)
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}

func mustBindFlag(key string, flag *pflag.Flag) {
	if err := bindFlag(viper.GetViper(), key, flag); err != nil {
		log.Fatal(err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database", app+".db")
	v.SetDefault("exclude-file", "")
	v.SetDefault("exclude-names", []string{})

	v.SetDefault("ai.provider", providerAzure)
	v.SetDefault("ai.timeout", screening.DefaultTimeout)
	v.SetDefault("ai.requests-per-second", 0)
	v.SetDefault("ai.max-log-length", 0)
	v.SetDefault("ai.azure.endpoint", "")
	v.SetDefault("ai.azure.api-key-file", "")
	v.SetDefault("ai.azure.deployment", store.DefaultDeployment)
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "")
	v.SetDefault("ai.gemini.max-retries", 0)

	v.SetDefault("batch.max-concurrent", store.DefaultMaxConcurrent)

	v.SetDefault("fetch.user-agent", fetch.DefaultUserAgent)
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.browser", false)
	v.SetDefault("fetch.browser-timeout", fetch.DefaultBrowserTimeout)
	v.SetDefault("fetch.render-wait", fetch.DefaultRenderWait)
	v.SetDefault("fetch.delay", 2*time.Second)
	v.SetDefault("fetch.cookie-file", "")

	v.SetDefault("server.addr", server.DefaultAddr)
	v.SetDefault("server.allowed-origins", []string{server.DefaultAllowedOrigin})
}

// initConfig reads the optional config file and environment overrides.
// An explicitly passed config file must exist.
func initConfig(_ *cobra.Command) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	return nil
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Azure == nil {
		config.AI.Azure = &AzureConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Batch == nil {
		config.Batch = &BatchConfig{}
	}
	if config.Fetch == nil {
		config.Fetch = &FetchConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	return config, nil
}

func newLogger() (*zap.Logger, error) {
	return logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})
}
