package themeapi

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
)

const previewLimit = 100

// ErrMalformedPayload is returned when a response body cannot be decoded.
var ErrMalformedPayload = errors.New("malformed settings payload")

// StatusError is a non-2xx response from the settings backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	// Preview holds at most the first 100 characters of the response body.
	Preview string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Preview)
}

func (e *StatusError) UpstreamEndpoint() string { return e.Endpoint }
func (e *StatusError) UpstreamStatus() int       { return e.StatusCode }
func (e *StatusError) UpstreamPreview() string   { return e.Preview }

// preview truncates body to previewLimit characters.
func preview(body []byte) string {
	if utf8.RuneCount(body) <= previewLimit {
		return string(body)
	}
	cut, runes := 0, 0
	for cut < len(body) && runes < previewLimit {
		_, size := utf8.DecodeRune(body[cut:])
		cut += size
		runes++
	}
	return string(body[:cut])
}

// classify wraps a failed call in the matching pkg/errors code.
func classify(endpoint string, err error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, endpoint+" rate limited")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, endpoint+" request failed")
}

func malformed(endpoint string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("%w: %v", ErrMalformedPayload, err), "decode "+endpoint+" response")
}
