package registration

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFlags(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     PasswordPolicyFlags
	}{
		{"empty", "", PasswordPolicyFlags{}},
		{"length only counts characters", "        ", PasswordPolicyFlags{ValidLength: true}},
		{"seven characters is too short", "Abc12!x", PasswordPolicyFlags{HasUpper: true, HasLower: true, HasNumber: true, HasSpecial: true}},
		{"all rules", "Abc12345!", PasswordPolicyFlags{ValidLength: true, HasUpper: true, HasLower: true, HasNumber: true, HasSpecial: true}},
		{"upper only", "ABCDEFGH", PasswordPolicyFlags{ValidLength: true, HasUpper: true}},
		{"lower only", "abc", PasswordPolicyFlags{HasLower: true}},
		{"digits only", "12345678", PasswordPolicyFlags{ValidLength: true, HasNumber: true}},
		{"non-ascii letters are not upper or lower", "ÄÖÜäöüßé", PasswordPolicyFlags{ValidLength: true}},
		{"space is not special", "a b", PasswordPolicyFlags{HasLower: true}},
		{"backslash is special", `\`, PasswordPolicyFlags{HasSpecial: true}},
		{"tilde is not special", "~`", PasswordPolicyFlags{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeFlags(tt.password))
		})
	}
}

func TestComputeFlags_EverySpecialCharacter(t *testing.T) {
	for _, r := range SpecialCharacters {
		f := ComputeFlags(string(r))
		assert.True(t, f.HasSpecial, "%q should count as special", r)
		assert.False(t, f.HasUpper || f.HasLower || f.HasNumber || f.ValidLength, "%q should only set HasSpecial", r)
	}
}

func TestComputeFlags_LengthIndependentOfContent(t *testing.T) {
	for n := 0; n <= 12; n++ {
		for _, ch := range []string{"a", "Z", "5", "!", " ", "é"} {
			p := strings.Repeat(ch, n)
			assert.Equal(t, n >= MinPasswordLength, ComputeFlags(p).ValidLength, "password %q", p)
		}
	}
}

func TestFlagsRules(t *testing.T) {
	rules := ComputeFlags("abc").Rules()
	require.Len(t, rules, 5)
	assert.Equal(t, "length", rules[0].Key)
	assert.True(t, rules[2].Met, "lowercase rule")
	assert.False(t, ComputeFlags("abc").Satisfied())
	assert.True(t, ComputeFlags("Abc12345!").Satisfied())
}

func TestPhoneValid(t *testing.T) {
	tests := map[string]bool{
		"":            true,
		"5":           true,
		"555":         true,
		"5555555555":  true,
		"55555555555": false,
		"555a":        false,
		"555-1234":    false,
		"(555)":       false,
		" 555":        false,
		"５５５":         false, // full-width digits
	}
	for in, want := range tests {
		assert.Equal(t, want, PhoneValid(in), "phone %q", in)
	}
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type form struct {
		Phone string `validate:"phonedigits"`
	}
	assert.NoError(t, v.Struct(form{Phone: "555"}))
	assert.Error(t, v.Struct(form{Phone: "555a"}))
}
