package registration

import "net/url"

// Provider is a third-party identity service offered as an alternative way
// to register.
type Provider struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Icon is an image URL shown on the button. Empty means the built-in
	// icon for well-known providers, if any.
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// ProviderList is the ordered set of providers delivered at page load.
type ProviderList []Provider

// ProviderAction is a rendered "Register with ..." button.
type ProviderAction struct {
	ProviderID string
	Label      string
	Href       string
	Icon       string
}

// ProviderSignInPath is the route that starts a provider sign-in.
const ProviderSignInPath = "/auth/signin/"

var builtinIcons = map[string]string{
	"google":   "/static/img/providers/google.svg",
	"apple":    "/static/img/providers/apple.svg",
	"facebook": "/static/img/providers/facebook.svg",
}

// IconFor returns the icon URL for p, falling back to the built-in icon
// for its id. Unknown providers without an icon get "".
func IconFor(p Provider) string {
	if p.Icon != "" {
		return p.Icon
	}
	return builtinIcons[p.ID]
}

// Actions returns one action per provider, in delivery order.
func (l ProviderList) Actions() []ProviderAction {
	actions := make([]ProviderAction, 0, len(l))
	for _, p := range l {
		actions = append(actions, ProviderAction{
			ProviderID: p.ID,
			Label:      "Register with " + p.Name,
			Href:       ProviderSignInPath + url.PathEscape(p.ID),
			Icon:       IconFor(p),
		})
	}
	return actions
}
