package pages

import (
	"github.com/nfrund/signup/internal/registration"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// Element ids targeted by htmx swaps.
const (
	PasswordPolicyID = "password-policy"
	PhoneFieldID     = "phone-field"
)

// PasswordChecklist lists each password rule and whether it is met.
func PasswordChecklist(flags registration.PasswordPolicyFlags) g.Node {
	return html.Ul(
		html.ID(PasswordPolicyID),
		html.Class("policy"),
		html.Aria("live", "polite"),
		g.Map(flags.Rules(), func(r registration.PolicyRule) g.Node {
			mark, class := "✗", "unmet"
			if r.Met {
				mark, class = "✓", "met"
			}
			return html.Li(
				html.Class(class),
				html.Data("rule", r.Key),
				g.Text(mark+" "+r.Label),
			)
		}),
	)
}

// PhoneField is the phone number input together with its error text. It
// re-renders itself as the visitor types.
func PhoneField(value string, invalid bool) g.Node {
	return html.Div(
		html.ID(PhoneFieldID),
		html.Label(html.For("phone_number"), g.Text("Phone number")),
		html.Input(
			html.ID("phone_number"),
			html.Type("tel"),
			html.Name("phone_number"),
			html.Value(value),
			html.AutoComplete("tel"),
			html.Placeholder("Digits only"),
			g.If(invalid, html.Aria("invalid", "true")),
			hx.Post("/register/phone"),
			hx.Trigger("input"),
			hx.Target("#"+PhoneFieldID),
			hx.Swap("outerHTML"),
		),
		g.If(invalid, html.P(html.Class("field-error"), g.Text(registration.MsgPhoneInvalid))),
	)
}
