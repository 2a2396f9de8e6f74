package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Host               string        `env:"HOST,default=0.0.0.0"`
	Port               string        `env:"PORT,default=5000"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT,default=30s" validate:"gt=0"`
	ImageFetchTimeout  time.Duration `env:"IMAGE_FETCH_TIMEOUT,default=15s" validate:"gt=0"`
	MaxRequestBodySize int64         `env:"MAX_REQUEST_BODY_SIZE,default=10485760" validate:"gt=0"`
	LogLevel           string        `env:"LOG_LEVEL,default=info" validate:"oneof=trace debug info warn warning error fatal panic"`

	ModelPath         string `env:"MODEL_PATH,default=models/food_classifier.onnx" validate:"required"`
	ModelMetadataPath string `env:"MODEL_METADATA_PATH,default=models/metadata.json" validate:"required"`
	ONNXRuntimeLib    string `env:"ONNXRUNTIME_LIB"`
	TopK              int    `env:"TOP_K,default=5" validate:"gte=1,lte=100"`

	MaxImagePixels int `env:"MAX_IMAGE_PIXELS,default=40000000" validate:"gt=0"`

	// AllowedImageHosts is a comma-separated host allow-list for URL analysis;
	// empty allows any public host.
	AllowedImageHosts      string `env:"ALLOWED_IMAGE_HOSTS"`
	AllowPrivateImageHosts bool   `env:"ALLOW_PRIVATE_IMAGE_HOSTS,default=false"`

	// ThresholdsFile is optional; the built-in freshness thresholds apply when empty.
	ThresholdsFile  string `env:"THRESHOLDS_FILE"`
	WatchThresholds bool   `env:"WATCH_THRESHOLDS,default=false"`
}

var validate = validator.New()

// writeTimeoutMargin leaves room to send the error response of a request
// that ran into RequestTimeout.
const writeTimeoutMargin = 5 * time.Second

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// WriteTimeout is the server write deadline, longer than RequestTimeout.
func (c *Config) WriteTimeout() time.Duration {
	return c.RequestTimeout + writeTimeoutMargin
}

// ImageHosts splits AllowedImageHosts into trimmed, non-empty host names.
func (c *Config) ImageHosts() []string {
	var hosts []string
	for _, h := range strings.Split(c.AllowedImageHosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// LoadFromEnv reads the configuration from the process environment.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.WatchThresholds && c.ThresholdsFile == "" {
		return fmt.Errorf("WATCH_THRESHOLDS requires THRESHOLDS_FILE")
	}
	return nil
}
