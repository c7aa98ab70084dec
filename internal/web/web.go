// Package web mounts the go-app shell and shared error handling on an echo server
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/drummonds/imgconv/webapp"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// Dir holds the build outputs app.wasm and wasm_exec.js
const Dir = "web"

// MountApp registers the WASM shell: go-app resources, the stylesheet, /config.js
// and a catch-all for client routes. Register API routes before calling it.
func MountApp(e *echo.Echo, apiURL string) {
	appHandler := webapp.Handler()

	e.GET("/wasm_exec.js", func(c echo.Context) error {
		return c.File(Dir + "/wasm_exec.js")
	})
	e.Static("/web", Dir)

	e.GET("/app.js", echo.WrapHandler(appHandler))
	e.GET("/app.css", echo.WrapHandler(appHandler))
	e.GET("/manifest.webmanifest", echo.WrapHandler(appHandler))

	e.GET("/webapp/webapp.css", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "text/css", webapp.Stylesheet)
	})

	e.GET("/config.js", func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, "application/javascript")
		return c.String(http.StatusOK, ConfigJS(apiURL))
	})

	// Must be last; the app handles its own 404s through NotFoundPage
	e.Any("/*", echo.WrapHandler(appHandler))
}

// ConfigJS renders the script that tells the page where the API lives.
// An empty apiURL makes the page use relative URLs.
func ConfigJS(apiURL string) string {
	return fmt.Sprintf(`
// imgconv Frontend Configuration
window.imgconvConfig = {
    apiURL: %q
};
console.log("imgconv Config loaded:", window.imgconvConfig);
`, strings.TrimSuffix(apiURL, "/"))
}

// ErrorHandler answers 404s on /api/* (or everywhere when apiOnly) with JSON and
// other unknown paths with a small HTML page. Other errors use echo's default.
func ErrorHandler(e *echo.Echo, apiOnly bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code != http.StatusNotFound {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		path := c.Request().URL.Path
		if apiOnly || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, map[string]string{
				"error":   "Not Found",
				"message": "The requested API endpoint does not exist",
				"path":    path,
			})
			return
		}
		c.HTML(http.StatusNotFound, notFoundHTML)
	}
}

const notFoundHTML = `<!DOCTYPE html>
<html>
<head><title>404 - Not Found</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1>404 - Page Not Found</h1>
	<a href="/" style="color: #3498db; text-decoration: none; font-size: 18px;">← Back to the converter</a>
</body>
</html>`

// StartWithRetry starts e on ip:port, moving to the next port while the
// current one is taken. It returns the port it settled on.
func StartWithRetry(e *echo.Echo, ip, port string, maxRetries int) (string, error) {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return port, fmt.Errorf("invalid port %q: %w", port, err)
	}

	var startErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		current := strconv.Itoa(portNum + attempt)
		addr := fmt.Sprintf("%s:%s", ip, current)
		Logger.Info("Attempting to start server", "address", addr, "attempt", attempt+1)

		startErr = e.Start(addr)
		if !IsAddressInUse(startErr) {
			if startErr == http.ErrServerClosed {
				startErr = nil
			}
			return current, startErr
		}
		Logger.Warn("Port already in use, trying next port",
			"port", current,
			"attempt", attempt+1,
			"max_attempts", maxRetries)
	}
	return port, fmt.Errorf("no free port in %d attempts from %s: %w", maxRetries, port, startErr)
}

// IsAddressInUse checks if the error is due to address already in use
func IsAddressInUse(err error) bool {
	return err != nil && strings.Contains(err.Error(), "address already in use")
}
