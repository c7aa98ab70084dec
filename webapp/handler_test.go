package webapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHandlerRoutes tests that all expected routes are registered
func TestHandlerRoutes(t *testing.T) {
	handler := Handler()

	tests := []struct {
		name string
		path string
	}{
		{
			name: "Converter page",
			path: "/",
		},
		{
			name: "About page",
			path: "/about",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code == http.StatusNotFound {
				t.Errorf("Route %s returned 404 Not Found - route may not be registered", tt.path)
			}

			contentType := rec.Header().Get("Content-Type")
			if !strings.Contains(contentType, "text/html") && rec.Code == http.StatusOK {
				t.Logf("Note: Route %s returned status %d with Content-Type: %s", tt.path, rec.Code, contentType)
			}
		})
	}
}

// TestHandlerPageHeaders tests that the page pulls in the stylesheet and runtime config
func TestHandlerPageHeaders(t *testing.T) {
	handler := Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{"/webapp/webapp.css", "/config.js", "imgconv"} {
		if !strings.Contains(body, want) {
			t.Errorf("Page should reference %s", want)
		}
	}
}

// TestPageFor tests that routes map to the right page component
func TestPageFor(t *testing.T) {
	if _, ok := pageFor("/").(*ConverterPage); !ok {
		t.Error("Expected / to render ConverterPage")
	}
	if _, ok := pageFor("/about").(*AboutPage); !ok {
		t.Error("Expected /about to render AboutPage")
	}
	if _, ok := pageFor("/jobs").(*NotFoundPage); !ok {
		t.Error("Expected unknown routes to render NotFoundPage")
	}
}
