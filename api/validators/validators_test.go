package validators

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	pkgerrors "github.com/prensprays-byte/library-inventory-system/pkg/errors"
)

type samplePayload struct {
	Title string `json:"title" validate:"required"`
	Genre string `json:"genre" validate:"required"`
	Note  string `json:"note"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"T","genre":"g"}`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Title != "T" || payload.Genre != "g" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyReportsMissingFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":"n"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeMissingFields {
		t.Fatalf("expected missing_fields, got %v", err)
	}
	if got := typed.Missing(); !reflect.DeepEqual(got, []string{"title", "genre"}) {
		t.Fatalf("unexpected missing list: %v", got)
	}
}

func TestDecodeJSONBodyEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeMissingFields {
		t.Fatalf("expected missing_fields for empty body, got %v", err)
	}
	if len(typed.Missing()) != 2 {
		t.Fatalf("expected every required field reported, got %v", typed.Missing())
	}
}

func TestDecodeJSONBodyMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))

	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}

func TestQueryInt(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"page=3", 3},
		{"page=", 1},
		{"", 1},
		{"page=abc", 1},
		{"page=-2", -2},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		if got := QueryInt(req, "page", 1); got != tc.want {
			t.Fatalf("query %q: expected %d, got %d", tc.query, tc.want, got)
		}
	}
}
