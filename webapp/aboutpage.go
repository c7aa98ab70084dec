package webapp

import (
	"encoding/json"
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/imgconv/formats"
)

// AboutInfo represents the about information from the API
type AboutInfo struct {
	Version        string  `json:"version"`
	MaxUploadBytes int64   `json:"maxUploadBytes"`
	SessionTTL     string  `json:"sessionTTL"`
	ActiveSessions int     `json:"activeSessions"`
	DefaultFormat  string  `json:"defaultFormat"`
	DefaultScale   float64 `json:"defaultScale"`
	MinScale       float64 `json:"minScale"`
	MaxScale       float64 `json:"maxScale"`
}

// AboutPage displays information about the application
type AboutPage struct {
	app.Compo
	aboutInfo AboutInfo
	loading   bool
	error     string
}

// OnMount is called when the component is mounted
func (a *AboutPage) OnMount(ctx app.Context) {
	a.loading = true
	a.fetchAboutInfo(ctx)
}

// fetchAboutInfo fetches the about information from the API
func (a *AboutPage) fetchAboutInfo(ctx app.Context) {
	fetchText(ctx, BuildAPIURL("/api/about"), nil,
		func(ctx app.Context, status int, body string) {
			if err := json.Unmarshal([]byte(body), &a.aboutInfo); err != nil {
				a.error = fmt.Sprintf("Failed to parse response: %v", err)
			}
			a.loading = false
		},
		func(ctx app.Context) {
			a.error = "Network error"
			a.loading = false
		})
}

// Render renders the about page
func (a *AboutPage) Render() app.UI {
	if a.loading {
		return app.Div().Class("about-page").Body(
			app.H2().Text("About imgconv"),
			app.Div().Class("loading").Body(app.Text("Loading...")),
		)
	}

	if a.error != "" {
		return app.Div().Class("about-page").Body(
			app.H2().Text("About imgconv"),
			app.Div().Class("error").Body(app.Text("Error: "+a.error)),
		)
	}

	return app.Div().Class("about-page").Body(
		app.H2().Text("About imgconv"),
		app.Div().Class("about-content").Body(
			app.Div().Class("about-section").Body(
				app.H3().Text("Application Information"),
				app.Div().Class("info-grid").Body(
					a.renderInfoItem("Version", a.aboutInfo.Version),
					a.renderInfoItem("Upload Limit", a.getUploadLimit()),
					a.renderInfoItem("Active Sessions", fmt.Sprintf("%d", a.aboutInfo.ActiveSessions)),
				),
			),
			app.Div().Class("about-section").Body(
				app.H3().Text("Conversion Defaults"),
				app.Div().Class("config-details").Body(
					app.P().Body(
						app.Strong().Text("Default Format: "),
						app.Text(a.getDefaultFormat()),
					),
					app.P().Body(
						app.Strong().Text("Default Scale: "),
						app.Text(formatScale(a.aboutInfo.DefaultScale)),
					),
					app.P().Body(
						app.Strong().Text("Scale Range: "),
						app.Text(a.getScaleRange()),
					),
					app.P().Body(
						app.Strong().Text("Idle Sessions Expire After: "),
						app.Text(a.aboutInfo.SessionTTL),
					),
				),
			),
			app.Div().Class("about-section").Body(
				app.H3().Text("Formats"),
				app.P().Text(inputFormatsText()),
				app.P().Text("Output formats: "+formats.SupportedTargetsText()),
			),
			app.Div().Class("about-section").Body(
				app.H3().Text("About imgconv"),
				app.P().Text("imgconv converts and resizes images in the browser, built with Go and WebAssembly."),
			),
		),
	)
}

// renderInfoItem creates an info item display
func (a *AboutPage) renderInfoItem(label, value string) app.UI {
	return app.Div().Class("info-item").Body(
		app.Div().Class("info-label").Body(app.Text(label)),
		app.Div().Class("info-value").Body(app.Text(value)),
	)
}

// getUploadLimit returns the upload limit in megabytes
func (a *AboutPage) getUploadLimit() string {
	if a.aboutInfo.MaxUploadBytes <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d MB", a.aboutInfo.MaxUploadBytes>>20)
}

// getDefaultFormat returns the display name of the default target
func (a *AboutPage) getDefaultFormat() string {
	if a.aboutInfo.DefaultFormat == "" {
		return formats.PNG.String()
	}
	return formats.ParseFormat(a.aboutInfo.DefaultFormat).String()
}

// getScaleRange returns the allowed scale range
func (a *AboutPage) getScaleRange() string {
	minScale, maxScale := a.aboutInfo.MinScale, a.aboutInfo.MaxScale
	if maxScale == 0 {
		minScale, maxScale = formats.MinScale, formats.MaxScale
	}
	return fmt.Sprintf("%s to %s", formatScale(minScale), formatScale(maxScale))
}
