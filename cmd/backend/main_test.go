package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	config "github.com/drummonds/imgconv/config"
	"github.com/drummonds/imgconv/formats"
)

func setupTestBackend(t *testing.T) *echo.Echo {
	t.Helper()
	e, _ := newBackend(config.ServerConfig{
		MaxUploadBytes: 1 << 20,
		FrontEndConfig: config.FrontEndConfig{Defaults: formats.DefaultOptions()},
	})
	return e
}

func TestBackendServesAPI(t *testing.T) {
	e := setupTestBackend(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlExposeHeaders); !strings.Contains(got, echo.HeaderContentDisposition) {
		t.Errorf("Expected Content-Disposition to be exposed, got %q", got)
	}
}

func TestBackendHasNoPages(t *testing.T) {
	e := setupTestBackend(t)

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		t.Errorf("Expected a JSON 404, got %s", rec.Header().Get(echo.HeaderContentType))
	}
}
