package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/food-inspector-go/internal/analyzer"
	"github.com/anime-shed/food-inspector-go/internal/classifier"
	"github.com/anime-shed/food-inspector-go/internal/config"
	"github.com/anime-shed/food-inspector-go/internal/logger"
	"github.com/anime-shed/food-inspector-go/internal/observer"
	"github.com/anime-shed/food-inspector-go/internal/repository"
	"github.com/anime-shed/food-inspector-go/internal/service"
	"github.com/anime-shed/food-inspector-go/internal/storage"
	"github.com/anime-shed/food-inspector-go/internal/transport"
	"github.com/anime-shed/food-inspector-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config              *config.Config
	classifier          classifier.Classifier
	freshnessAnalyzer   *analyzer.FreshnessAnalyzer
	imageRepository     repository.ImageRepository
	metrics             *observer.MetricsObserver
	foodAnalysisService service.FoodAnalysisService
	handler             http.Handler
}

// NewContainer wires the application around an already loaded classifier.
// The container owns clf from here on and closes it in Close.
func NewContainer(cfg *config.Config, clf classifier.Classifier) (*Container, error) {
	thresholds := analyzer.DefaultThresholds()
	if cfg.ThresholdsFile != "" {
		loaded, err := analyzer.LoadThresholds(cfg.ThresholdsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load thresholds: %w", err)
		}
		thresholds = loaded
	}
	freshnessAnalyzer := analyzer.NewFreshnessAnalyzer(analyzer.NewPolicy(thresholds))

	// Build dependency graph
	imageFetcher := storage.NewHTTPImageFetcher(storage.FetcherOptions{
		Timeout:              cfg.ImageFetchTimeout,
		MaxBytes:             cfg.MaxRequestBodySize,
		Backoff:              storage.DefaultFetcherOptions().Backoff,
		AllowPrivateNetworks: cfg.AllowPrivateImageHosts,
	})
	urlValidator := validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.ImageHosts()).
		AllowPrivateHosts(cfg.AllowPrivateImageHosts)
	imageRepository := repository.NewHTTPImageRepository(imageFetcher, urlValidator)

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	foodAnalysisService := service.NewFoodAnalysisService(clf, freshnessAnalyzer, imageRepository, publisher,
		service.WithMaxImagePixels(cfg.MaxImagePixels))

	// Only real models carry metadata; test doubles leave the health field out.
	model, _ := clf.(transport.ModelInfo)
	handler := transport.NewHandler(foodAnalysisService, metrics, model, cfg)

	return &Container{
		config:              cfg,
		classifier:          clf,
		freshnessAnalyzer:   freshnessAnalyzer,
		imageRepository:     imageRepository,
		metrics:             metrics,
		foodAnalysisService: foodAnalysisService,
		handler:             handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Analyzer returns the freshness analyzer, whose thresholds can be swapped at runtime.
func (c *Container) Analyzer() *analyzer.FreshnessAnalyzer {
	return c.freshnessAnalyzer
}

// Close releases the classifier.
func (c *Container) Close() error {
	if c.classifier == nil {
		return nil
	}
	return c.classifier.Close()
}
