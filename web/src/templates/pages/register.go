package pages

import (
	"github.com/nfrund/signup/internal/registration"
	"github.com/nfrund/signup/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// Register is the registration page.
func Register(data auth.RegisterData) g.Node {
	return html.Div(
		html.H1(g.Text("Create your account")),

		// Picks up a sign-in that completes elsewhere, e.g. in a provider tab.
		html.Div(
			hx.Get("/register/session"),
			hx.Trigger("every 5s"),
			hx.Swap("none"),
		),

		html.Form(
			html.ID("register-form"),
			html.Method("post"),
			html.Action("/register"),
			hx.DisabledElt("find button[type='submit']"),

			textField("email", "Email", "email", data.Email, "email"),
			textField("username", "Username", "text", data.Username, "username"),

			html.Label(html.For("password"), g.Text("Password")),
			html.Input(
				html.ID("password"),
				html.Type("password"),
				html.Name("password"),
				html.Required(),
				html.AutoComplete("new-password"),
				hx.Post("/register/password-policy"),
				hx.Trigger("input"),
				hx.Target("#"+PasswordPolicyID),
				hx.Swap("outerHTML"),
			),
			PasswordChecklist(data.Flags),

			html.Label(html.For("confirm_password"), g.Text("Confirm password")),
			html.Input(
				html.ID("confirm_password"),
				html.Type("password"),
				html.Name("confirm_password"),
				html.Required(),
				html.AutoComplete("new-password"),
				g.If(data.Errors.PasswordMismatch, html.Aria("invalid", "true")),
			),
			g.If(data.Errors.PasswordMismatch,
				html.P(html.ID("confirm-error"), html.Class("field-error"), g.Text(registration.MsgPasswordMismatch)),
			),

			PhoneField(data.PhoneNumber, data.Errors.PhoneError),

			g.If(data.Errors.ServerError != "",
				html.P(html.ID("server-error"), html.Class("field-error"), html.Role("alert"), g.Text(data.Errors.ServerError)),
			),

			html.Button(html.Type("submit"), g.Text("Register")),
		),

		g.If(len(data.Providers) > 0, providerButtons(data.Providers)),

		html.P(
			html.Class("divider"),
			html.A(html.Href(registration.LoginPath), g.Text("Login instead")),
		),
	)
}

func textField(name, label, inputType, value, autocomplete string) g.Node {
	return g.Group{
		html.Label(html.For(name), g.Text(label)),
		html.Input(
			html.ID(name),
			html.Type(inputType),
			html.Name(name),
			html.Value(value),
			html.Required(),
			html.AutoComplete(autocomplete),
		),
	}
}

func providerButtons(actions []registration.ProviderAction) g.Node {
	return html.Div(
		html.Class("providers"),
		html.P(html.Class("divider"), g.Text("or")),
		g.Map(actions, func(a registration.ProviderAction) g.Node {
			return html.A(
				html.Class("button"),
				html.Href(a.Href),
				html.Data("provider", a.ProviderID),
				// Provider sign-in leaves the site, so it must be a full navigation.
				hx.Boost("false"),
				g.If(a.Icon != "", html.Img(html.Class("provider-icon"), html.Src(a.Icon), html.Alt(""))),
				g.Text(a.Label),
			)
		}),
	)
}
