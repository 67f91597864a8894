package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/azure"
	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/fetch"
	"github.com/spigell/resume-screener/internal/messages"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/secrets"
	"github.com/spigell/resume-screener/internal/store"
)

const (
	providerAzure  = "azure"
	providerGemini = "gemini"
)

// application bundles what every command needs.
type application struct {
	config   *Config
	logger   *zap.Logger
	store    *store.Store
	registry *extract.Registry
}

// newApplication builds the logger, decodes the configuration and opens the store.
// The caller must call close.
func newApplication(ctx context.Context) (*application, error) {
	log, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	defaults, err := settingsDefaults(config)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, config.Database, defaults, log.Named("store"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &application{
		config:   config,
		logger:   log,
		store:    st,
		registry: extract.NewRegistry(log.Named("extract")),
	}, nil
}

func (a *application) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// settingsDefaults builds the settings used when nothing is stored yet.
func settingsDefaults(config *Config) (store.Settings, error) {
	defaults := store.DefaultSettings()

	if endpoint := strings.TrimSpace(config.AI.Azure.Endpoint); endpoint != "" {
		defaults.AIConfig.Endpoint = endpoint
	}
	if deployment := strings.TrimSpace(config.AI.Azure.Deployment); deployment != "" {
		defaults.AIConfig.DeploymentName = deployment
	}
	if config.Batch.MaxConcurrent > 0 {
		defaults.MaxConcurrent = config.Batch.MaxConcurrent
	}

	key, err := secrets.Optional(secrets.Source{
		Name: "azure openai api key",
		File: config.AI.Azure.APIKeyFile,
		Env:  "AZURE_OPENAI_API_KEY",
	})
	if err != nil {
		return store.Settings{}, err
	}
	defaults.AIConfig.APIKey = key

	return defaults, nil
}

func (a *application) newLoader() (*fetch.Loader, error) {
	cfg := a.config.Fetch
	opts := fetch.Options{
		Timeout:        cfg.Timeout,
		UserAgent:      cfg.UserAgent,
		Browser:        cfg.Browser,
		BrowserTimeout: cfg.BrowserTimeout,
		RenderWait:     cfg.RenderWait,
	}

	cookie, err := secrets.Optional(secrets.Source{
		Name: "site cookie",
		File: cfg.CookieFile,
		Env:  envPrefix + "_COOKIE",
	})
	if err != nil {
		return nil, err
	}
	if cookie != "" {
		opts.Headers = map[string]string{"Cookie": cookie}
	}

	return fetch.NewLoader(opts, a.logger.Named("fetch")), nil
}

// newCompleter picks the model backend. Azure credentials come from the stored settings so the
// CLI and the HTTP surface share them; missing ones yield ai.ErrNotConfigured.
func (a *application) newCompleter(ctx context.Context, settings store.Settings) (ai.Completer, error) {
	cfg := a.config.AI
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", providerAzure:
		client, err := azure.New(azure.Config{
			Endpoint:          settings.AIConfig.Endpoint,
			APIKey:            settings.AIConfig.APIKey,
			Deployment:        settings.AIConfig.DeploymentName,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxLogLength:      cfg.MaxLogLength,
		}, a.logger.Named("azure"))
		if err != nil {
			return nil, err
		}
		return client, nil
	case providerGemini:
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, gemini.Options{
			APIKey:       apiKey,
			Model:        cfg.Gemini.Model,
			MaxRetries:   cfg.Gemini.MaxRetries,
			MaxLogLength: cfg.MaxLogLength,
		}, a.logger.Named("gemini"))
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func (a *application) newScreener(ctx context.Context, settings store.Settings) (*screening.Screener, error) {
	completer, err := a.newCompleter(ctx, settings)
	if err != nil {
		return nil, err
	}

	return screening.New(completer, screening.Options{Timeout: a.config.AI.Timeout}, a.logger.Named("screening")), nil
}

// screenerFactory adapts newScreener to the dispatcher.
func (a *application) screenerFactory() messages.ScreenerFactory {
	return func(ctx context.Context, settings store.Settings) (messages.Screener, error) {
		s, err := a.newScreener(ctx, settings)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (a *application) dispatcher() *messages.Dispatcher {
	return messages.NewDispatcher(a.registry, a.store, a.screenerFactory(), a.logger.Named("messages"))
}
