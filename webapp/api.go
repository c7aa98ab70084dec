package webapp

import (
	"encoding/json"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// GetAPIBaseURL returns the configured API base URL
// It reads from window.imgconvConfig.apiURL if available,
// otherwise falls back to empty string (relative URLs)
func GetAPIBaseURL() string {
	// Check if config is available in browser
	if !app.IsClient {
		return "" // Server-side rendering - use relative URLs
	}

	// Try to get API URL from global config
	config := app.Window().Get("imgconvConfig")
	if config.Truthy() {
		apiURL := config.Get("apiURL")
		if apiURL.Truthy() {
			url := apiURL.String()
			// Ensure no trailing slash
			if len(url) > 0 && url[len(url)-1] == '/' {
				return url[:len(url)-1]
			}
			return url
		}
	}

	// Fallback to relative URLs (same origin)
	return ""
}

// BuildAPIURL constructs a full API URL from a path
// Example: BuildAPIURL("/api/formats") -> "http://backend:8000/api/formats"
// or just "/api/formats" if using relative URLs
func BuildAPIURL(path string) string {
	baseURL := GetAPIBaseURL()
	if baseURL == "" {
		return path // Relative URL
	}
	return baseURL + path
}

// SessionInfo mirrors the session JSON returned by /api/session
type SessionInfo struct {
	ID            string  `json:"id"`
	State         string  `json:"state"`
	FileName      string  `json:"fileName"`
	SourceFormat  string  `json:"sourceFormat"`
	Preview       string  `json:"preview"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	NaturalWidth  float64 `json:"naturalWidth"`
	NaturalHeight float64 `json:"naturalHeight"`
	ScaledWidth   int     `json:"scaledWidth"`
	ScaledHeight  int     `json:"scaledHeight"`
	Scale         float64 `json:"scale"`
	Format        string  `json:"format"`
	OutputName    string  `json:"outputName"`
	Error         string  `json:"error"`
	Message       string  `json:"message"`
}

// HasSource reports whether a decoded image is loaded
func (s SessionInfo) HasSource() bool {
	return s.FileName != "" && s.Width > 0 && s.Height > 0
}

// APIError is the error body returned by the API
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseAPIError extracts the user message from an error body, falling back to fallback
func parseAPIError(body, fallback string) string {
	var apiErr APIError
	if err := json.Unmarshal([]byte(body), &apiErr); err != nil || apiErr.Message == "" {
		return fallback
	}
	return apiErr.Message
}

// newRequestInit builds the options object passed to fetch
func newRequestInit(method string) app.Value {
	reqInit := app.Window().Get("Object").New()
	reqInit.Set("method", method)
	return reqInit
}

// jsonRequestInit builds fetch options carrying a JSON body
func jsonRequestInit(method string, payload any) (app.Value, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	reqInit := newRequestInit(method)
	reqInit.Set("body", string(body))
	reqInit.Set("headers", map[string]interface{}{"Content-Type": "application/json"})
	return reqInit, nil
}

// fetchText calls fetch and hands the status and body text to done on the UI goroutine.
// failed runs instead when the request never reaches the server. It does nothing
// while prerendering on the server.
func fetchText(ctx app.Context, url string, reqInit app.Value, done func(ctx app.Context, status int, body string), failed func(ctx app.Context)) {
	if !app.IsClient {
		return
	}
	ctx.Async(func() {
		var res app.Value
		if reqInit == nil {
			res = app.Window().Call("fetch", url)
		} else {
			res = app.Window().Call("fetch", url, reqInit)
		}

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			response := args[0]
			status := response.Get("status").Int()

			response.Call("text").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
				body := ""
				if len(args) > 0 {
					body = args[0].String()
				}
				ctx.Dispatch(func(ctx app.Context) {
					done(ctx, status, body)
				})
				return nil
			}))

			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) {
				failed(ctx)
			})
			return nil
		}))
	})
}
