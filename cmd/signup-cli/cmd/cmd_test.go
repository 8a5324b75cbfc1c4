package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	passwordOutputFormat = "table"
	providersFile = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "Signup CLI v"+version+"\n", out)
}

func TestPassword_Table(t *testing.T) {
	out, err := run(t, "password", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "RULE")
	assert.Regexp(t, `lower\s+met`, out)
	assert.Regexp(t, `length\s+unmet`, out)
	assert.Contains(t, out, "does not meet every rule")

	out, err = run(t, "password", "Abc12345!")
	require.NoError(t, err)
	assert.NotContains(t, out, "unmet")
	assert.NotContains(t, out, "does not meet every rule")
}

func TestPassword_JSON(t *testing.T) {
	out, err := run(t, "password", "ABCDEFGH", "--format", "json")
	require.NoError(t, err)

	var rules []ruleDisplay
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.Len(t, rules, 5)

	met := map[string]bool{}
	for _, r := range rules {
		met[r.Key] = r.Met
	}
	assert.Equal(t, map[string]bool{"length": true, "upper": true, "lower": false, "number": false, "special": false}, met)
}

func TestPassword_BadFormat(t *testing.T) {
	_, err := run(t, "password", "x", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestPhone(t *testing.T) {
	out, err := run(t, "phone", "5551234567")
	require.NoError(t, err)
	assert.Contains(t, out, "is a valid phone number")

	_, err = run(t, "phone", "555-1234")
	assert.ErrorContains(t, err, "Invalid phone number")

	_, err = run(t, "phone", "55512345678")
	assert.Error(t, err)
}

func TestProviders(t *testing.T) {
	orig := fs
	fs = afero.NewMemMapFs()
	t.Cleanup(func() { fs = orig })

	const catalog = `providers:
  - id: github
    name: GitHub
    authorize_url: https://github.com/login/oauth/authorize
  - id: google
    authorize_url: https://accounts.google.com/o/oauth2/v2/auth
`
	require.NoError(t, afero.WriteFile(fs, "/providers.yaml", []byte(catalog), 0o644))

	out, err := run(t, "providers", "--file", "/providers.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Register with GitHub")
	assert.Contains(t, out, "Register with Google")
	assert.Less(t, bytes.Index([]byte(out), []byte("github")), bytes.Index([]byte(out), []byte("google")))

	require.NoError(t, afero.WriteFile(fs, "/empty.yaml", []byte("providers: []\n"), 0o644))
	out, err = run(t, "providers", "--file", "/empty.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "No providers configured")

	_, err = run(t, "providers", "--file", "/missing.yaml")
	assert.ErrorContains(t, err, "read provider catalog")
}

func TestProviders_NoFile(t *testing.T) {
	t.Setenv("AUTH_PROVIDERS_FILE", "")
	_, err := run(t, "providers")
	assert.ErrorContains(t, err, "no catalog file")
}
