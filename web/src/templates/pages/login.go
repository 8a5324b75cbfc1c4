package pages

import (
	"github.com/nfrund/signup/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// Login is the credential sign-in page.
func Login(data auth.LoginData) g.Node {
	return html.Div(
		html.H1(g.Text("Log in")),
		html.Form(
			html.Method("post"),
			html.Action("/login"),
			hx.DisabledElt("find button[type='submit']"),
			textField("email", "Email", "email", data.Email, "email"),
			html.Label(html.For("password"), g.Text("Password")),
			html.Input(
				html.ID("password"),
				html.Type("password"),
				html.Name("password"),
				html.Required(),
				html.AutoComplete("current-password"),
			),
			g.If(data.CallbackURL != "",
				html.Input(html.Type("hidden"), html.Name("callbackUrl"), html.Value(data.CallbackURL)),
			),
			html.Button(html.Type("submit"), g.Text("Log in")),
		),
		html.P(
			html.Class("divider"),
			html.A(html.Href("/register"), g.Text("Create an account")),
		),
	)
}
