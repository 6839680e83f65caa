package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-landing"
	"github.com/goliatone/go-landing/internal/config"
	"github.com/goliatone/go-landing/pkg/assets"
	"github.com/goliatone/go-landing/pkg/compose"
	"github.com/goliatone/go-landing/pkg/copywriter"
	"github.com/goliatone/go-landing/pkg/pipeline"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

// app holds the components wired from configuration.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *sections.Registry
	specs     *spec.Store
	resolver  *assets.Resolver
	generator *pipeline.Generator
	service   *landing.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	registry := sections.NewDefaultRegistry()
	specs, err := landing.LoadSpecs(cfg.Specs.Dir, registry)
	if err != nil {
		return nil, err
	}

	resolver := assets.NewResolver(
		assets.WithSource(manifestSource(cfg.Assets, cfg.Generation)),
		assets.WithPlaceholderPrefix(cfg.Assets.PlaceholderPrefix),
		assets.WithLogger(logger.Named("assets")),
	)

	client, err := newCopywriter(ctx, cfg.Generation, logger)
	if err != nil {
		return nil, err
	}
	generator := pipeline.New(client,
		pipeline.WithTimeout(cfg.Generation.Timeout),
		pipeline.WithLogger(logger.Named("pipeline")))

	composer := compose.New(
		compose.WithSpecStore(specs),
		compose.WithRegistry(registry),
		compose.WithResolver(resolver),
		compose.WithAllowRemoteAssets(cfg.Assets.AllowRemote),
		compose.WithLogger(logger.Named("compose")))

	return &app{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		specs:     specs,
		resolver:  resolver,
		generator: generator,
		service: landing.NewService(
			landing.WithComposer(composer),
			landing.WithGenerator(generator),
			landing.WithLogger(logger)),
	}, nil
}

func manifestSource(cfg config.AssetsConfig, gen config.GenerationConfig) assets.Source {
	switch {
	case cfg.ManifestDir != "":
		return assets.NewDirSource(cfg.ManifestDir)
	case cfg.ManifestURL != "":
		return assets.NewHTTPSource(cfg.ManifestURL, nil, gen.Timeout)
	default:
		return assets.EmbeddedSource()
	}
}

// newCopywriter returns nil for the "none" provider; the pipeline then
// produces brief-derived fallback copy.
func newCopywriter(ctx context.Context, cfg config.GenerationConfig, logger *zap.Logger) (copywriter.Client, error) {
	switch cfg.Provider {
	case "openai":
		return copywriter.NewHTTPClient(copywriter.HTTPConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Timeout:     cfg.Timeout,
			Temperature: cfg.Temperature,
			Logger:      logger.Named("copywriter"),
		}), nil
	case "genai":
		client, err := copywriter.NewGenAIClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, fmt.Errorf("genai client: %w", err)
		}
		return client, nil
	default:
		return nil, nil
	}
}
