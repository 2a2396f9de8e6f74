package service

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/anime-shed/food-inspector-go/internal/analyzer"
	"github.com/anime-shed/food-inspector-go/internal/classifier"
	apperrors "github.com/anime-shed/food-inspector-go/internal/errors"
	"github.com/anime-shed/food-inspector-go/internal/logger"
	"github.com/anime-shed/food-inspector-go/internal/observer"
	"github.com/anime-shed/food-inspector-go/internal/preprocess"
	"github.com/anime-shed/food-inspector-go/internal/repository"
	"github.com/anime-shed/food-inspector-go/pkg/models"
	"github.com/corona10/goimagehash"
)

var errNoPredictions = errors.New("classifier returned no predictions")

// FoodAnalysisService classifies a food image and rates its freshness.
type FoodAnalysisService interface {
	// Analyze runs the full pipeline on uploaded image bytes.
	Analyze(ctx context.Context, data []byte) (*models.AnalysisResponse, error)
	// AnalyzeURL downloads the image first.
	AnalyzeURL(ctx context.Context, imageURL string) (*models.AnalysisResponse, error)
}

type foodAnalysisService struct {
	classifier classifier.Classifier
	assessor   analyzer.FreshnessAssessor
	imageRepo  repository.ImageRepository
	publisher  observer.Subject
	maxPixels  int
}

// Option configures the analysis service.
type Option func(*foodAnalysisService)

// WithMaxImagePixels caps width*height of images the service will decode.
func WithMaxImagePixels(n int) Option {
	return func(s *foodAnalysisService) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// NewFoodAnalysisService creates a new food analysis service. imageRepo may be
// nil when URL analysis is not offered.
func NewFoodAnalysisService(
	clf classifier.Classifier,
	assessor analyzer.FreshnessAssessor,
	imageRepo repository.ImageRepository,
	publisher observer.Subject,
	opts ...Option,
) FoodAnalysisService {
	if publisher == nil {
		publisher = observer.NewEventPublisher()
	}
	s := &foodAnalysisService{
		classifier: clf,
		assessor:   assessor,
		imageRepo:  imageRepo,
		publisher:  publisher,
		maxPixels:  preprocess.DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the full pipeline on uploaded image bytes.
func (s *foodAnalysisService) Analyze(ctx context.Context, data []byte) (*models.AnalysisResponse, error) {
	return s.analyze(ctx, data, observer.SourceUpload, "")
}

// AnalyzeURL downloads the image and analyzes it like an upload.
func (s *foodAnalysisService) AnalyzeURL(ctx context.Context, imageURL string) (*models.AnalysisResponse, error) {
	if s.imageRepo == nil {
		return nil, apperrors.NewInternalError("URL analysis is not configured", nil)
	}

	start := time.Now()
	data, err := s.imageRepo.FetchImage(ctx, imageURL)
	if err != nil {
		s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:      observer.ImageFetchFailed,
			Source:         observer.SourceURL,
			ImageURL:       imageURL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.ImageFetched,
		Source:         observer.SourceURL,
		ImageURL:       imageURL,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"bytes": len(data)},
	})

	return s.analyze(ctx, data, observer.SourceURL, imageURL)
}

func (s *foodAnalysisService) analyze(ctx context.Context, data []byte, source observer.Source, imageURL string) (*models.AnalysisResponse, error) {
	start := time.Now()
	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		Source:    source,
		ImageURL:  imageURL,
	})

	resp, err := s.run(ctx, data)
	if err != nil {
		s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
			EventType:      observer.AnalysisFailed,
			Source:         source,
			ImageURL:       imageURL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.publisher.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Source:         source,
		ImageURL:       imageURL,
		ProcessingTime: time.Since(start),
		Success:        true,
		FoodType:       resp.FoodType,
		Freshness:      resp.Freshness,
	})
	return resp, nil
}

// run decodes, classifies and assesses. Classification and assessment see the
// same tensor.
func (s *foodAnalysisService) run(ctx context.Context, data []byte) (*models.AnalysisResponse, error) {
	img, _, err := preprocess.DecodeWithLimit(data, s.maxPixels)
	if errors.Is(err, preprocess.ErrTooManyPixels) {
		return nil, apperrors.NewImageTooLargeError(err)
	}
	if err != nil {
		return nil, apperrors.NewDecodeError(err)
	}
	tensor := preprocess.FromImage(img)

	predictions, err := s.classifier.Classify(ctx, tensor)
	if err != nil {
		return nil, apperrors.NewClassifierError(err)
	}
	if len(predictions) == 0 {
		return nil, apperrors.NewClassifierError(errNoPredictions)
	}
	top := predictions[0]

	verdict := s.assessor.Assess(tensor)

	return buildResponse(top, verdict, imageHash(img)), nil
}

func buildResponse(top classifier.Prediction, verdict analyzer.Verdict, hash string) *models.AnalysisResponse {
	resp := &models.AnalysisResponse{
		FoodType:            classifier.FormatLabel(top.Label),
		Confidence:          top.Confidence,
		Freshness:           string(verdict.Freshness),
		Quality:             string(verdict.Freshness),
		IsEdible:            verdict.IsEdible(),
		FreshnessConfidence: verdict.Confidence,
		ImageHash:           hash,
	}
	if verdict.Advisory != "" {
		warning := verdict.Advisory
		resp.Warning = &warning
	}
	return resp
}

// imageHash returns the difference hash of img, or "" if it cannot be computed.
func imageHash(img image.Image) string {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		logger.WithError(err).Warn("Failed to compute image hash")
		return ""
	}
	return hash.ToString()
}
