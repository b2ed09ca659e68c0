package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNamedParamRouting(t *testing.T) {
	r := New(nil)
	var gotToken string
	r.GET("/api/v1/compare/:token/excel", func(w http.ResponseWriter, req *http.Request) {
		gotToken = Param(req, "token")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compare/abc123/excel", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotToken != "abc123" {
		t.Errorf("token = %q, want abc123", gotToken)
	}
}

func TestNotFound(t *testing.T) {
	r := New(nil)
	r.GET("/health", func(w http.ResponseWriter, req *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	r := New(nil)
	r.POST("/api/v1/compare", func(w http.ResponseWriter, req *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compare", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSegmentCountMustMatch(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/compare/:token", func(w http.ResponseWriter, req *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/compare/abc/extra", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
