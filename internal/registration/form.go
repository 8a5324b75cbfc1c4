package registration

// FormState holds the raw values of the registration form fields.
type FormState struct {
	Email           string `form:"email" json:"email"`
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"-"`
	ConfirmPassword string `form:"confirm_password" json:"-"`
	PhoneNumber     string `form:"phone_number" json:"phoneNumber"`
}

// ValidationErrors is what the page shows next to the fields.
type ValidationErrors struct {
	PasswordMismatch bool
	PhoneError       bool
	ServerError      string
}

// Any reports whether there is anything to display.
func (e ValidationErrors) Any() bool {
	return e.PasswordMismatch || e.PhoneError || e.ServerError != ""
}
