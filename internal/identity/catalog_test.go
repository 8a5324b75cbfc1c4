package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
providers:
  - id: google
    name: Google
    authorize_url: https://accounts.google.com/o/oauth2/v2/auth
    client_id: google-client
    scopes: [openid, email]
  - id: github
    authorize_url: https://github.com/login/oauth/authorize
    client_id: gh-client
    icon: /static/img/github.png
`

func TestNewCatalog_LoadsInFileOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/providers.yaml", []byte(catalogYAML), 0o644))

	c, err := NewCatalog(fs, "/etc/providers.yaml")
	require.NoError(t, err)

	list := c.Providers()
	require.Len(t, list, 2)
	assert.Equal(t, "google", list[0].ID)
	assert.Equal(t, "Google", list[0].Name)
	assert.Equal(t, "Github", list[1].Name, "missing names are derived from the id")
	assert.Equal(t, "/static/img/github.png", list[1].Icon)
	assert.Empty(t, list[0].Icon)

	p, ok := c.Lookup("google")
	require.True(t, ok)
	assert.Equal(t, []string{"openid", "email"}, p.Scopes)

	_, ok = c.Lookup("apple")
	assert.False(t, ok)
}

func TestNewCatalog_EmptyPath(t *testing.T) {
	c, err := NewCatalog(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Empty(t, c.Providers())
}

func TestNewCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "providers: [\n"},
		{"missing id", "providers:\n  - authorize_url: https://a.example/auth\n"},
		{"duplicate id", "providers:\n  - id: a\n    authorize_url: https://a.example/auth\n  - id: a\n    authorize_url: https://a.example/auth\n"},
		{"relative url", "providers:\n  - id: a\n    authorize_url: /auth\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "p.yaml", []byte(tt.content), 0o644))
			_, err := NewCatalog(fs, "p.yaml")
			assert.Error(t, err)
		})
	}

	_, err := NewCatalog(afero.NewMemMapFs(), "missing.yaml")
	assert.Error(t, err)
}

func TestCatalog_LoadKeepsPreviousOnError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "p.yaml", []byte(catalogYAML), 0o644))
	c, err := NewCatalog(fs, "p.yaml")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "p.yaml", []byte("providers: ["), 0o644))
	assert.Error(t, c.Load())
	assert.Len(t, c.Providers(), 2)
}

func TestCatalog_ProvidersIsASnapshot(t *testing.T) {
	c, err := NewStaticCatalog(ProviderConfig{ID: "google", AuthorizeURL: "https://a.example/auth"})
	require.NoError(t, err)

	list := c.Providers()
	list[0].Name = "changed"
	assert.Equal(t, "Google", c.Providers()[0].Name)
}

func TestCatalog_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - id: google\n    authorize_url: https://a.example/auth\n"), 0o644))

	c, err := NewCatalog(afero.NewOsFs(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Watch(ctx))

	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	assert.Eventually(t, func() bool {
		return len(c.Providers()) == 2
	}, 2*time.Second, 20*time.Millisecond)
}

func TestCatalog_WatchWithoutPath(t *testing.T) {
	c, err := NewStaticCatalog()
	require.NoError(t, err)
	assert.Error(t, c.Watch(context.Background()))
}
