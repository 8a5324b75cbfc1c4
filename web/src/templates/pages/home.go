package pages

import (
	"github.com/nfrund/signup/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Home is the landing page for signed-in users.
func Home(data auth.HomeData) g.Node {
	name := data.Username
	if name == "" {
		name = data.Email
	}
	return html.Div(
		html.H1(g.Textf("Welcome, %s", name)),
		html.P(g.Text("Your account is ready.")),
		html.Form(
			html.Method("post"),
			html.Action("/logout"),
			html.Button(html.Type("submit"), g.Text("Log out")),
		),
	)
}
