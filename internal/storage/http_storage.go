//go:generate go run go.uber.org/mock/mockgen -source=http_storage.go -destination=../mocks/mock_image_fetcher.go -package=mocks

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"github.com/anime-shed/food-inspector-go/internal/logger"
	"github.com/anime-shed/food-inspector-go/pkg/validation"
	"github.com/sirupsen/logrus"
)

const maxAttempts = 3

var (
	// ErrImageTooLarge is returned when the response body exceeds the size cap.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
	// ErrForbiddenAddress is returned when a connection would reach a
	// loopback, private or link-local address.
	ErrForbiddenAddress = errors.New("destination address not allowed")
)

// ImageFetcher downloads raw image bytes.
type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// FetcherOptions tunes HTTPImageFetcher.
type FetcherOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
	// AllowPrivateNetworks disables the public-address check on every dial,
	// redirects included.
	AllowPrivateNetworks bool
}

// DefaultFetcherOptions returns the production settings.
func DefaultFetcherOptions() FetcherOptions {
	return FetcherOptions{
		Timeout:  30 * time.Second,
		MaxBytes: 10 << 20,
		Backoff:  time.Second,
	}
}

// HTTPImageFetcher implements ImageFetcher over HTTP with retries.
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
	backoff  time.Duration
}

// NewHTTPImageFetcher creates an HTTP image fetcher
func NewHTTPImageFetcher(opts FetcherOptions) *HTTPImageFetcher {
	defaults := DefaultFetcherOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaults.MaxBytes
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if !opts.AllowPrivateNetworks {
		dialer.Control = refuseNonPublic
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		// Single image downloads, few hosts.
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: opts.MaxBytes,
		backoff:  opts.Backoff,
	}
}

// refuseNonPublic runs after DNS resolution, so address is always ip:port.
func refuseNonPublic(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, address)
	}
	if !validation.IsPublicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, ap.Addr())
	}
	return nil
}

// FetchImage downloads imageURL. 4xx responses fail at once; 5xx responses and
// transport errors are retried up to three attempts with linear backoff.
func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, retry, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		logger.WithFields(logrus.Fields{
			"url":     imageURL,
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Image fetch failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * h.backoff):
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", maxAttempts, lastErr)
}

// fetchOnce performs a single GET and reports whether a failure is retryable.
func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Go-Food-Inspector/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		retry := ctx.Err() == nil && !errors.Is(err, ErrForbiddenAddress)
		return nil, retry, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if resp.ContentLength > h.maxBytes {
		return nil, false, ErrImageTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, false, ErrImageTooLarge
	}
	return data, false, nil
}
