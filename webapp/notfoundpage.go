package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// NotFoundPage is shown for any client route other than the converter and about pages
type NotFoundPage struct {
	app.Compo
	Path string
}

func (p *NotFoundPage) Render() app.UI {
	return app.Div().Class("not-found-page").Body(
		app.Div().Class("not-found-container").Body(
			app.H1().Class("not-found-title").Text("404"),
			app.H2().Class("not-found-subtitle").Text("Nothing to convert here"),
			app.P().Class("not-found-message").Text(notFoundMessage(p.Path)),
			app.Div().Class("not-found-actions").Body(
				app.A().Href("/").Class("not-found-home-link").Text("Back to the converter"),
			),
		),
	)
}

func notFoundMessage(path string) string {
	if path == "" || path == "/" {
		return "This page does not exist."
	}
	return "There is no page at " + path + "."
}
