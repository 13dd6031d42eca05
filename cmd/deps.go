package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/schememitra/internal/ai"
	"github.com/spigell/schememitra/internal/ai/azure"
	"github.com/spigell/schememitra/internal/ai/gemini"
	"github.com/spigell/schememitra/internal/logger"
	"github.com/spigell/schememitra/internal/metrics"
	"github.com/spigell/schememitra/internal/schemes"
	"github.com/spigell/schememitra/internal/secrets"
)

// deps bundles what every command needs.
type deps struct {
	config    *Config
	logger    *zap.Logger
	catalog   *schemes.Catalog
	explainer *ai.Explainer
}

func setup(ctx context.Context) *deps {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("version", version), zap.String("catalog", config.Catalog))

	catalog := schemes.LoadOrEmpty(config.Catalog, logger)
	metrics.CatalogSchemes.Set(float64(catalog.Len()))

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("explanations are disabled", zap.Error(err))
		generator = nil
	}

	return &deps{
		config:    config,
		logger:    logger,
		catalog:   catalog,
		explainer: ai.NewExplainer(generator, config.AI.MaxLogLength, logger),
	}
}

// newGenerator builds the configured explanation provider. Missing
// credentials are not an error: the provider reports them on every call.
func newGenerator(ctx context.Context, cfg AIConfig, logger *zap.Logger) (ai.Generator, error) {
	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case "", "azure":
		apiKey, err := secrets.Optional(secrets.Source{
			Name:  "azure openai api key",
			Value: cfg.Azure.APIKey,
			File:  cfg.Azure.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}

		client := azure.New(azure.Config{
			APIKey:     apiKey,
			Endpoint:   cfg.Azure.Endpoint,
			Deployment: cfg.Azure.Deployment,
			APIVersion: cfg.Azure.APIVersion,
			Timeout:    cfg.Azure.Timeout,
		}, logger)

		if !client.Configured() {
			logger.Warn("azure openai is not configured",
				zap.String("hint", "set AZURE_OPENAI_API_KEY and AZURE_OPENAI_ENDPOINT in the environment or .env file"),
			)
		}

		return client, nil
	case "gemini":
		apiKey, err := secrets.Optional(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}

		return gemini.NewGenerator(ctx, gemini.Config{
			APIKey:     apiKey,
			Model:      cfg.Gemini.Model,
			MaxRetries: cfg.Gemini.MaxRetries,
			Timeout:    cfg.Gemini.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newTextAnalytics(cfg TextAnalyticsConfig, logger *zap.Logger) (*azure.TextAnalytics, error) {
	apiKey, err := secrets.Optional(secrets.Source{
		Name:  "azure text analytics key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	return azure.NewTextAnalytics(azure.TextAnalyticsConfig{
		APIKey:   apiKey,
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout,
	}, logger), nil
}
