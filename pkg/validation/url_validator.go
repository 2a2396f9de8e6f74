package validation

import (
	"net/netip"
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/anime-shed/food-inspector-go/internal/errors"
)

// maxURLLength bounds what is accepted from request bodies.
const maxURLLength = 2048

// URLValidator handles URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	allowPrivate   bool
}

// nonPublicPrefixes are ranges netip has no predicate for.
var nonPublicPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
}

// IsPublicAddr reports whether addr may be fetched from: not loopback, private,
// link-local, multicast, unspecified or carrier-grade NAT.
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if !addr.IsValid() || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() || addr.IsMulticast() {
		return false
	}
	for _, p := range nonPublicPrefixes {
		if p.Contains(addr) {
			return false
		}
	}
	return true
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options.
// Hosts are matched without port, case-insensitively.
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	lowered := make([]string, len(hosts))
	for i, h := range hosts {
		lowered[i] = strings.ToLower(h)
	}
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   lowered,
	}
}

// AllowPrivateHosts lets URLs name loopback, private or link-local hosts.
func (v *URLValidator) AllowPrivateHosts(allow bool) *URLValidator {
	v.allowPrivate = allow
	return v
}

// ValidateImageURL checks that imageURL can be fetched as a food photo.
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}
	if len(imageURL) > maxURLLength {
		return apperrors.NewValidationError("URL is too long", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !slices.Contains(v.allowedSchemes, strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	host := strings.ToLower(parsedURL.Hostname())
	if host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !slices.Contains(v.allowedHosts, host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	if !v.allowPrivate && isPrivateHost(host) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// isPrivateHost catches literal addresses and localhost names. Names that
// resolve to private addresses are refused when the fetcher dials.
func isPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return !IsPublicAddr(addr)
	}
	return false
}
