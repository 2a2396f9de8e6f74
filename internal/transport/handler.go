package transport

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/anime-shed/food-inspector-go/internal/classifier"
	"github.com/anime-shed/food-inspector-go/internal/config"
	apperrors "github.com/anime-shed/food-inspector-go/internal/errors"
	"github.com/anime-shed/food-inspector-go/internal/logger"
	"github.com/anime-shed/food-inspector-go/internal/observer"
	"github.com/anime-shed/food-inspector-go/internal/service"
	"github.com/anime-shed/food-inspector-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// imageField is the multipart field carrying the upload.
const imageField = "image"

// MetricsSource renders the metrics exposition and the counters shown on /health.
type MetricsSource interface {
	WriteMetrics(w io.Writer) error
	GetMetrics() observer.Snapshot
}

// ModelInfo describes the loaded classifier. It may be nil.
type ModelInfo interface {
	Metadata() classifier.Metadata
}

func NewHandler(svc service.FoodAnalysisService, metrics MetricsSource, model ModelInfo, cfg *config.Config) http.Handler {
	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		cors(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/", serviceInfo)
	r.GET("/health", healthCheck(metrics, model))
	r.GET("/metrics", metricsHandler(metrics))
	r.POST("/analyze", analyzeUpload(svc, cfg))
	r.POST("/analyze/url", analyzeURL(svc, cfg))

	return r
}

func analyzeUpload(svc service.FoodAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		// Log request start
		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing food analysis request")

		data, filename, err := readUpload(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		result, err := svc.Analyze(ctx, data)
		if err != nil {
			_ = c.Error(err)
			return
		}

		logCompletion(startTime, result, logrus.Fields{
			"filename": filename,
			"bytes":    len(data),
		})
		c.JSON(http.StatusOK, result)
	}
}

func analyzeURL(svc service.FoodAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.URLAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				_ = c.Error(apperrors.NewPayloadTooLargeError(err))
				return
			}
			_ = c.Error(apperrors.NewValidationError("invalid request format", err))
			return
		}

		logger.WithFields(logrus.Fields{
			"url": req.URL,
			"ip":  c.ClientIP(),
		}).Info("Processing food analysis request")

		result, err := svc.AnalyzeURL(ctx, req.URL)
		if err != nil {
			_ = c.Error(err)
			return
		}

		logCompletion(startTime, result, logrus.Fields{"url": req.URL})
		c.JSON(http.StatusOK, result)
	}
}

// readUpload streams the form and returns the first file part named image.
// A request that is not multipart, or has no such file part, is a missing
// image; plain fields named image do not count as files. A file part whose
// filename is empty is an empty selection.
func readUpload(c *gin.Context) ([]byte, string, error) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		return nil, "", apperrors.NewMissingImageError()
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", apperrors.NewMissingImageError()
		}
		if err != nil {
			return nil, "", uploadReadError(err, apperrors.NewMissingImageError())
		}
		if part.FormName() != imageField || !hasFilename(part) {
			continue
		}

		filename := part.FileName()
		if filename == "" {
			return nil, "", apperrors.NewEmptyFilenameError()
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, "", uploadReadError(err, apperrors.NewInternalError("failed to read upload", err))
		}
		return data, filename, nil
	}
}

// hasFilename reports whether the part's Content-Disposition carries a
// filename parameter at all, empty or not.
func hasFilename(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

func uploadReadError(err error, fallback error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.NewPayloadTooLargeError(err)
	}
	return fallback
}

func logCompletion(startTime time.Time, result *models.AnalysisResponse, fields logrus.Fields) {
	fields["processing_time_ms"] = time.Since(startTime).Milliseconds()
	fields["food_type"] = result.FoodType
	fields["freshness"] = result.Freshness
	fields["is_edible"] = result.IsEdible
	logger.WithFields(fields).Info("Food analysis completed successfully")
}

func serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, models.ServiceInfo{
		Message: "Food freshness inspection service",
		Endpoints: map[string]string{
			"GET /":             "Service description",
			"GET /health":       "Health check",
			"GET /metrics":      "Prometheus metrics",
			"POST /analyze":     "Analyze an uploaded food image (multipart field 'image')",
			"POST /analyze/url": "Analyze a food image by URL (JSON body {\"url\": ...})",
		},
	})
}

func healthCheck(metrics MetricsSource, model ModelInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.HealthResponse{
			Status:  "available",
			Version: Version,
			Time:    time.Now().UTC(),
		}
		if model != nil {
			md := model.Metadata()
			resp.Model = &models.ModelStatus{Classes: len(md.Classes), Layout: string(md.Layout)}
		}
		if metrics != nil {
			snap := metrics.GetMetrics()
			resp.Analyses = &models.AnalysisCounts{
				Total:     snap.TotalAnalyses,
				Succeeded: snap.SuccessfulAnalyses,
				Failed:    snap.FailedAnalyses,
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

func metricsHandler(metrics MetricsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", observer.MetricsContentType)
		c.Status(http.StatusOK)
		if err := metrics.WriteMetrics(c.Writer); err != nil {
			logger.WithError(err).Error("Failed to write metrics")
		}
	}
}
