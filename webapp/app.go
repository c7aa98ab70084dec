package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// App is the root component of the application
type App struct {
	app.Compo
	path string
}

// OnPreRender records the requested path when the page is rendered on the server
func (a *App) OnPreRender(ctx app.Context) {
	a.path = ctx.Page().URL().Path
}

func (a *App) currentPath() string {
	if app.IsClient {
		return app.Window().URL().Path
	}
	return a.path
}

// Render renders the app
func (a *App) Render() app.UI {
	return app.Div().
		Class("app-container").
		Body(
			app.Header().Body(
				&NavBar{},
			),
			app.Main().Class("main-content").Body(
				app.Div().Class("content").Body(
					pageFor(a.currentPath()),
				),
			),
		)
}

// pageFor returns the page component for a route
func pageFor(path string) app.UI {
	switch path {
	case "", "/":
		return &ConverterPage{}
	case "/about":
		return &AboutPage{}
	default:
		return &NotFoundPage{Path: path}
	}
}
