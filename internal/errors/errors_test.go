package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
		wantPublic string
	}{
		{"missing image", NewMissingImageError(), ErrorTypeMissingImage, http.StatusBadRequest, "No image provided"},
		{"empty filename", NewEmptyFilenameError(), ErrorTypeEmptyFilename, http.StatusBadRequest, "No selected file"},
		{"decode", NewDecodeError(cause), ErrorTypeDecodeFailure, http.StatusInternalServerError, "failed to decode image: boom"},
		{"classifier", NewClassifierError(cause), ErrorTypeClassifier, http.StatusInternalServerError, "classification failed: boom"},
		{"validation", NewValidationError("bad url", nil), ErrorTypeValidation, http.StatusBadRequest, "bad url"},
		{"too large", NewPayloadTooLargeError(cause), ErrorTypePayloadTooLarge, http.StatusRequestEntityTooLarge, "request body too large: boom"},
		{"image too large", NewImageTooLargeError(cause), ErrorTypePayloadTooLarge, http.StatusRequestEntityTooLarge, "image dimensions too large: boom"},
		{"network", NewNetworkError("fetch", cause), ErrorTypeNetwork, http.StatusBadGateway, "fetch: boom"},
		{"timeout", NewTimeoutError("fetch", cause), ErrorTypeTimeout, http.StatusGatewayTimeout, "fetch: boom"},
		{"internal", NewInternalError("oops", nil), ErrorTypeInternal, http.StatusInternalServerError, "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.wantType, tt.err.Type)
			req.Equal(tt.wantStatus, tt.err.StatusCode)
			req.Equal(tt.wantPublic, tt.err.PublicMessage())
		})
	}
}

func TestWrappedErrors(t *testing.T) {
	req := require.New(t)
	cause := errors.New("unexpected EOF")
	wrapped := fmt.Errorf("analyze: %w", NewDecodeError(cause))

	req.True(IsType(wrapped, ErrorTypeDecodeFailure))
	req.False(IsType(wrapped, ErrorTypeClassifier))
	req.Equal(http.StatusInternalServerError, GetStatusCode(wrapped))
	req.ErrorIs(wrapped, cause)
	req.Contains(wrapped.Error(), "caused by: unexpected EOF")
}

func TestGetStatusCode_PlainError(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, GetStatusCode(errors.New("plain")))
	require.Equal(t, http.StatusBadRequest, GetStatusCode(NewMissingImageError()))
}
