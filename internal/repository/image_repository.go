package repository

import (
	"context"
	"errors"

	apperrors "github.com/anime-shed/food-inspector-go/internal/errors"
	"github.com/anime-shed/food-inspector-go/internal/storage"
	"github.com/anime-shed/food-inspector-go/pkg/validation"
)

// HTTPImageRepository implements ImageRepository using HTTP storage
type HTTPImageRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewHTTPImageRepository creates a new HTTP-based image repository
func NewHTTPImageRepository(fetcher storage.ImageFetcher, validator *validation.URLValidator) *HTTPImageRepository {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &HTTPImageRepository{
		fetcher:   fetcher,
		validator: validator,
	}
}

// FetchImage retrieves image bytes from a URL. Failures come back as
// AppErrors: validation, payload too large, timeout or network.
func (r *HTTPImageRepository) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if err := r.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	data, err := r.fetcher.FetchImage(ctx, imageURL)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, storage.ErrForbiddenAddress):
		return nil, apperrors.NewValidationError("URL host not allowed", err)
	case errors.Is(err, storage.ErrImageTooLarge):
		return nil, apperrors.NewPayloadTooLargeError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.NewTimeoutError("timed out fetching image", err)
	default:
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *HTTPImageRepository) ValidateImageURL(imageURL string) error {
	return r.validator.ValidateImageURL(imageURL)
}
