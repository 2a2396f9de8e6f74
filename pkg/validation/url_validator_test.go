package validation

import (
	"net/netip"
	"strings"
	"testing"

	apperrors "github.com/anime-shed/food-inspector-go/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestValidateImageURL(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		description string
		url         string
		wantErr     bool
	}{
		{"Should accept http URL", "http://example.com/image.jpg", false},
		{"Should accept https URL", "https://example.com/image.png", false},
		{"Should accept subdomain and path", "https://cdn.example.com/path/to/image.gif", false},
		{"Should accept public IP host with port", "http://93.184.216.34:8080/image.jpg", false},
		{"Should accept upper case scheme", "HTTPS://example.com/a.jpg", false},
		{"Should trim whitespace", "  https://example.com/a.jpg  ", false},
		{"Should reject empty URL", "", true},
		{"Should reject blank URL", "   ", true},
		{"Should reject ftp scheme", "ftp://example.com/image.jpg", true},
		{"Should reject file scheme", "file:///etc/passwd", true},
		{"Should reject missing host", "http:///image.jpg", true},
		{"Should reject relative URL", "/images/apple.jpg", true},
		{"Should reject malformed URL", "http://[::1", true},
		{"Should reject loopback address", "http://127.0.0.1:5000/metrics", true},
		{"Should reject IPv6 loopback", "http://[::1]/a.png", true},
		{"Should reject metadata address", "http://169.254.169.254/latest/meta-data/", true},
		{"Should reject private address", "http://192.168.1.1:8080/image.jpg", true},
		{"Should reject IPv4-mapped private address", "http://[::ffff:10.0.0.1]/a.png", true},
		{"Should reject localhost", "http://localhost/x.png", true},
		{"Should reject localhost subdomain", "http://api.LOCALHOST/x.png", true},
		{"Should reject unspecified address", "http://0.0.0.0/x.png", true},
		{"Should reject overlong URL", "https://example.com/" + strings.Repeat("a", maxURLLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestValidateImageURL_AllowedHosts(t *testing.T) {
	r := require.New(t)
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"Images.Example.com"})

	r.NoError(validator.ValidateImageURL("https://images.example.com/a.jpg"))
	r.NoError(validator.ValidateImageURL("https://images.example.com:443/a.jpg"))
	r.Error(validator.ValidateImageURL("https://other.example.com/a.jpg"))
	r.Error(validator.ValidateImageURL("http://images.example.com/a.jpg"))
}

func TestValidateImageURL_AllowPrivateHosts(t *testing.T) {
	r := require.New(t)
	validator := NewURLValidator().AllowPrivateHosts(true)

	r.NoError(validator.ValidateImageURL("http://127.0.0.1:5000/a.png"))
	r.NoError(validator.ValidateImageURL("http://localhost/a.png"))
}

func TestIsPublicAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34", true},
		{"2606:2800:220:1:248:1893:25c8:1946", true},
		{"127.0.0.1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.0.10", false},
		{"169.254.169.254", false},
		{"100.64.0.1", false},
		{"0.0.0.0", false},
		{"::1", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"::ffff:127.0.0.1", false},
		{"224.0.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			require.Equal(t, tt.want, IsPublicAddr(netip.MustParseAddr(tt.addr)))
		})
	}
}
