package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	config "github.com/drummonds/imgconv/config"
)

// setupTestServer builds the combined server with logging discarded
func setupTestServer(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("LOG_OUTPUT", "none")
	t.Setenv("SERVER_API_URL", "http://api.example:8000")

	serverConfig, logger := config.SetupServer()
	injectGlobals(logger)

	e, _ := newServer(serverConfig)
	return e
}

// TestHealthEndpoint tests that the API is mounted on the combined server
func TestHealthEndpoint(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse health response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
}

// TestNotFoundHandling tests the custom 404 handler for API and page requests
func TestNotFoundHandling(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Expected JSON 404 for API path, got %s", rec.Header().Get("Content-Type"))
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse 404 response: %v", err)
	}
	if body["path"] != "/api/does-not-exist" {
		t.Errorf("Expected path in 404 body, got %q", body["path"])
	}
}

// TestConfigJS tests that the frontend receives the configured API URL
func TestConfigJS(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/config.js", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/javascript" {
		t.Errorf("Expected application/javascript, got %s", got)
	}
	if !strings.Contains(rec.Body.String(), `apiURL: "http://api.example:8000"`) {
		t.Errorf("config.js missing API URL: %s", rec.Body.String())
	}
}

// TestRootEndpoint tests that the root endpoint returns the app page
func TestRootEndpoint(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(strings.ToLower(body), "<html") {
		t.Error("Response does not look like HTML")
	}
	if !strings.Contains(body, "/config.js") {
		t.Error("Page does not load /config.js")
	}
}

// TestConverterPageWithChromedp loads the converter in a headless browser that can execute WASM
func TestConverterPageWithChromedp(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := os.Stat("web/app.wasm"); err != nil {
		t.Skip("web/app.wasm not built, skipping chromedp test")
	}

	browsers := []string{"chromium", "chromium-browser", "google-chrome", "chrome"}
	browserFound := false
	for _, browser := range browsers {
		if _, err := exec.LookPath(browser); err == nil {
			browserFound = true
			break
		}
	}
	if !browserFound {
		t.Skip("No Chrome/Chromium browser found, skipping chromedp test")
	}

	t.Setenv("SERVER_API_URL", "")
	t.Setenv("LOG_OUTPUT", "none")
	serverConfig, logger := config.SetupServer()
	injectGlobals(logger)
	e, _ := newServer(serverConfig)

	testPort := "8997"
	go func() {
		if err := e.Start(fmt.Sprintf("127.0.0.1:%s", testPort)); err != nil {
			t.Logf("Server stopped: %v", err)
		}
	}()
	time.Sleep(2 * time.Second)
	defer e.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	testURL := fmt.Sprintf("http://127.0.0.1:%s/", testPort)
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(testURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		t.Skipf("Chromedp failed to navigate (browser may not be compatible): %v", err)
	}

	var bodyHTML string
	if err := chromedp.Run(taskCtx,
		chromedp.WaitVisible(".drop-zone", chromedp.ByQuery),
		chromedp.InnerHTML("body", &bodyHTML, chromedp.ByQuery),
	); err != nil {
		t.Fatalf("Converter page did not render: %v", err)
	}

	pageLower := strings.ToLower(bodyHTML)
	for _, content := range []string{"image converter", "input formats", "output formats"} {
		if !strings.Contains(pageLower, content) {
			t.Errorf("Missing expected content: %q", content)
		}
	}
	if strings.Contains(bodyHTML, "Go is not defined") {
		t.Error("Page contains 'Go is not defined' error - WebAssembly not loading correctly")
	}
}
