package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "schememitra"
)

type Config struct {
	Catalog       string              `mapstructure:"catalog"`
	AI            AIConfig            `mapstructure:"ai"`
	TextAnalytics TextAnalyticsConfig `mapstructure:"text-analytics"`
	Server        ServerConfig        `mapstructure:"server"`
}

type AIConfig struct {
	Provider     string       `mapstructure:"provider"`
	MaxLogLength int          `mapstructure:"max-log-length"`
	Azure        AzureConfig  `mapstructure:"azure"`
	Gemini       GeminiConfig `mapstructure:"gemini"`
}

type AzureConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Endpoint   string        `mapstructure:"endpoint"`
	Deployment string        `mapstructure:"deployment"`
	APIVersion string        `mapstructure:"api-version"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Model      string        `mapstructure:"model"`
	MaxRetries int           `mapstructure:"max-retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type TextAnalyticsConfig struct {
	APIKey     string        `mapstructure:"api-key"`
	APIKeyFile string        `mapstructure:"api-key-file"`
	Endpoint   string        `mapstructure:"endpoint"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

var envBindings = map[string]string{
	"catalog":                 "SCHEMEMITRA_CATALOG",
	"ai.provider":             "SCHEMEMITRA_AI_PROVIDER",
	"ai.azure.api-key":        "AZURE_OPENAI_API_KEY",
	"ai.azure.endpoint":       "AZURE_OPENAI_ENDPOINT",
	"ai.azure.deployment":     "AZURE_OPENAI_DEPLOYMENT_NAME",
	"ai.gemini.api-key":       "GEMINI_API_KEY",
	"text-analytics.api-key":  "AZURE_TEXTANALYTICS_KEY",
	"text-analytics.endpoint": "AZURE_TEXTANALYTICS_ENDPOINT",
	"server.addr":             "SCHEMEMITRA_ADDR",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "schememitra helps to find Indian government schemes and explains why they may fit you",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is schememitra.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("catalog", "", "path to the schemes catalog (json or yaml)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
}

func setDefaults() {
	viper.SetDefault("catalog", "schemes.json")
	viper.SetDefault("ai.provider", "azure")
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("ai.azure.deployment", "gpt-35-turbo")
	viper.SetDefault("ai.azure.api-version", "2023-05-15")
	viper.SetDefault("ai.azure.timeout", 10*time.Second)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 1)
	viper.SetDefault("ai.gemini.timeout", 10*time.Second)
	viper.SetDefault("text-analytics.timeout", 10*time.Second)
	viper.SetDefault("server.addr", ":8080")
}

func initConfig() {
	// Values from .env never override the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional unless it was requested explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
