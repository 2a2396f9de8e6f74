package repository

import "context"

// ImageRepository defines the interface for remote image access
type ImageRepository interface {
	// FetchImage validates imageURL and downloads the raw bytes
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
