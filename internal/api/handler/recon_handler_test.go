package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"

	"go-deal-recon/internal/cache"
	"go-deal-recon/internal/model"
)

func TestWriteError(t *testing.T) {
	h := NewRecon(nil, nil, nil, nil)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"input error", model.NewInputError("empty file"), http.StatusBadRequest},
		{"schema error", model.NewSchemaError("no deal column"), http.StatusBadRequest},
		{"wrapped input error", eris.Wrap(model.NewInputError("empty file"), "loading upload"), http.StatusBadRequest},
		{"not found", model.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", eris.Wrap(model.ErrNotFound, "looking up token"), http.StatusNotFound},
		{"unknown", eris.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeError(rec, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if _, ok := body["error"]; !ok {
				t.Errorf("response missing error field: %v", body)
			}
		})
	}
}

func TestExportUnknownToken(t *testing.T) {
	h := NewRecon(nil, cache.New(4, cache.DefaultTTL), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compare/deadbeef/csv", nil)
	rec := httptest.NewRecorder()
	// No router in front, so the token param is absent.
	h.ExportCSV(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing token: status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHealth(t *testing.T) {
	h := NewRecon(nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
	if ts, _ := body["timestamp"].(string); ts == "" {
		t.Error("timestamp missing")
	}
}

func TestCompareRejectsNonMultipart(t *testing.T) {
	h := NewRecon(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	h.Compare(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
