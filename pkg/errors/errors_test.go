package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "another save is in progress"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "draft is out of date, reload the theme", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := New(CodeNotFound, "no draft for brand").PublicMessage(); got != "no draft for brand" {
		t.Fatalf("expected own message for not found, got %q", got)
	}
	if got := New(CodeNotFound, "").PublicMessage(); got != "resource not found" {
		t.Fatalf("expected public fallback for empty message, got %q", got)
	}
	if got := Wrap(CodeDependency, stdErrors.New("dial tcp 10.0.0.1"), "read baseline").PublicMessage(); got != "dependency unavailable" {
		t.Fatalf("dependency messages stay internal, got %q", got)
	}
	if got := New(CodeInternal, "nil map").PublicMessage(); got != "internal server error" {
		t.Fatalf("internal messages stay internal, got %q", got)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("save: %w", New(CodeRateLimit, "slow down"))
	if !HasCode(err, CodeRateLimit) {
		t.Fatalf("expected rate limit code through wrapping")
	}
	if HasCode(err, CodeDependency) {
		t.Fatalf("unexpected dependency code")
	}
	if HasCode(stdErrors.New("plain"), CodeInternal) || HasCode(nil, CodeInternal) {
		t.Fatalf("untyped errors carry no code")
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpFlattensChain(t *testing.T) {
	root := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, root, "fetch settings")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", d.Chain)
	}
	if d.PGCode != "" {
		t.Fatalf("non-postgres errors should not carry pg fields")
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("Dump(nil) should be empty")
	}
}

type upstreamErr struct{}

func (upstreamErr) Error() string            { return "getBrandName returned status 502" }
func (upstreamErr) UpstreamEndpoint() string { return "getBrandName" }
func (upstreamErr) UpstreamStatus() int      { return http.StatusBadGateway }
func (upstreamErr) UpstreamPreview() string  { return "<html>bad gateway" }

func TestDumpCapturesUpstream(t *testing.T) {
	err := Wrap(CodeDependency, upstreamErr{}, "getBrandName request failed")

	d := Dump(err)
	if d.UpstreamEndpoint != "getBrandName" || d.UpstreamStatus != http.StatusBadGateway {
		t.Fatalf("unexpected upstream fields %+v", d)
	}
	if d.UpstreamPreview != "<html>bad gateway" {
		t.Fatalf("unexpected preview %q", d.UpstreamPreview)
	}
}
