package webapp

import (
	"fmt"
	"time"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/drummonds/imgconv/internal/build"
)

// NavBar is the navigation bar component
type NavBar struct {
	app.Compo
}

// Render renders the navigation bar
func (n *NavBar) Render() app.UI {
	return app.Nav().
		Class("navbar").
		Body(
			app.Div().Class("navbar-brand").Body(
				app.H1().Text("imgconv"),
				app.Span().Class("version-info").Body(
					app.Text(getVersionInfo()),
				),
			),
			app.Div().Class("navbar-menu").Body(
				n.renderNavItem("Convert", "/"),
				n.renderNavItem("About", "/about"),
			),
		)
}

// renderNavItem creates a navigation link, highlighting the current page
func (n *NavBar) renderNavItem(label, href string) app.UI {
	class := "navbar-item"
	if app.IsClient && app.Window().URL().Path == href {
		class += " navbar-item-active"
	}
	return app.A().
		Href(href).
		Class(class).
		Body(app.Text(label))
}

// getVersionInfo returns formatted version and date information
func getVersionInfo() string {
	date := build.BuildDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return fmt.Sprintf("%s | %s", build.Version, date)
}
