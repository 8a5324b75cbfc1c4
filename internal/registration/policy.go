package registration

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password that satisfies ValidLength.
const MinPasswordLength = 8

// SpecialCharacters is the fixed symbol set counted by HasSpecial.
const SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// MaxPhoneDigits is the longest accepted phone number.
const MaxPhoneDigits = 10

// PhoneRuleTag is the validator tag registered by RegisterRules.
const PhoneRuleTag = "phonedigits"

var phonePattern = regexp.MustCompile(`^[0-9]{0,10}$`)

// PasswordPolicyFlags reports which password rules a value satisfies.
// It is always derived from a password with ComputeFlags and never
// tracked on its own.
type PasswordPolicyFlags struct {
	ValidLength bool `json:"validLength"`
	HasUpper    bool `json:"hasUpper"`
	HasLower    bool `json:"hasLower"`
	HasNumber   bool `json:"hasNumber"`
	HasSpecial  bool `json:"hasSpecial"`
}

// ComputeFlags evaluates every password rule independently.
func ComputeFlags(password string) PasswordPolicyFlags {
	var f PasswordPolicyFlags
	f.ValidLength = utf8.RuneCountInString(password) >= MinPasswordLength
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			f.HasUpper = true
		case r >= 'a' && r <= 'z':
			f.HasLower = true
		case r >= '0' && r <= '9':
			f.HasNumber = true
		case strings.ContainsRune(SpecialCharacters, r):
			f.HasSpecial = true
		}
	}
	return f
}

// Satisfied reports whether every rule passes.
func (f PasswordPolicyFlags) Satisfied() bool {
	return f.ValidLength && f.HasUpper && f.HasLower && f.HasNumber && f.HasSpecial
}

// PolicyRule is one line of the password checklist.
type PolicyRule struct {
	Key   string
	Label string
	Met   bool
}

// Rules lists the checklist in display order.
func (f PasswordPolicyFlags) Rules() []PolicyRule {
	return []PolicyRule{
		{Key: "length", Label: "At least 8 characters", Met: f.ValidLength},
		{Key: "upper", Label: "An uppercase letter", Met: f.HasUpper},
		{Key: "lower", Label: "A lowercase letter", Met: f.HasLower},
		{Key: "number", Label: "A number", Met: f.HasNumber},
		{Key: "special", Label: "A special character", Met: f.HasSpecial},
	}
}

// PhoneValid reports whether v is zero to ten ASCII digits. Partial input is
// valid so the field can be checked while the user is still typing.
func PhoneValid(v string) bool {
	return phonePattern.MatchString(v)
}

// RegisterRules adds the registration field rules to a validator instance.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation(PhoneRuleTag, func(fl validator.FieldLevel) bool {
		return PhoneValid(fl.Field().String())
	})
}
