package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/signup/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps content in the HTML document shared by every page.
func Base(title string, flashes view.FlashData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := html.Doctype(
			html.HTML(
				html.Lang("en"),
				html.Head(
					html.Meta(html.Charset("utf-8")),
					html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
					html.TitleEl(g.Text(CalculateTitle(title))),
					html.Link(html.Rel("stylesheet"), html.Href("/static/css/app.css")),
					html.Script(html.Src(htmxSrc), html.Defer()),
				),
				html.Body(
					hx.Boost("true"),
					html.Main(
						Flashes(flashes),
						view.Node(ctx, content),
					),
				),
			),
		)
		return doc.Render(w)
	})
}

// Flashes renders the one-time success and error messages.
func Flashes(flashes view.FlashData) g.Node {
	if flashes.Empty() {
		return nil
	}
	return html.Div(
		html.ID("flashes"),
		html.Role("status"),
		g.Map(flashes.Success, func(msg string) g.Node {
			return html.Div(html.Class("flash flash-success"), g.Text(msg))
		}),
		g.Map(flashes.Error, func(msg string) g.Node {
			return html.Div(html.Class("flash flash-error"), g.Text(msg))
		}),
	)
}
