package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeMissingFields, http.StatusBadRequest},
		{CodeInvalidPublishedAt, http.StatusBadRequest},
		{CodeInvalidQuantity, http.StatusBadRequest},
		{CodeOutOfStock, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInvalidToken, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeEmailExists, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
				t.Fatalf("expected status %d for %s, got %d", tc.status, tc.code, got)
			}
		})
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	if got := MetadataFor(Code("nope")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown code, got %d", got)
	}
}

func TestAsExtractsThroughWrapping(t *testing.T) {
	inner := New(CodeNotFound, "book not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatalf("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("expected not_found, got %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if typed := As(fmt.Errorf("boom")); typed != nil {
		t.Fatalf("expected nil, got %v", typed)
	}
}

func TestWithMissingCarriesFieldList(t *testing.T) {
	err := New(CodeMissingFields, "missing required fields").WithMissing([]string{"title", "genre"})

	got := err.Missing()
	if len(got) != 2 || got[0] != "title" || got[1] != "genre" {
		t.Fatalf("unexpected missing list: %v", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(CodeUnavailable, cause, "mongo down")

	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if err.Error() != "unavailable: mongo down" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}
