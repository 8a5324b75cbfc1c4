package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/nfrund/signup/internal/registration"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ProviderConfig describes one third-party identity provider.
type ProviderConfig struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	AuthorizeURL string   `yaml:"authorize_url"`
	ClientID     string   `yaml:"client_id"`
	Scopes       []string `yaml:"scopes"`
	Icon         string   `yaml:"icon"`
}

type catalogFile struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// Catalog holds the configured providers in file order. The file is read
// through an afero.Fs so tests can use an in-memory filesystem.
type Catalog struct {
	fs   afero.Fs
	path string

	mu        sync.RWMutex
	providers []ProviderConfig
}

// NewCatalog creates a catalog and loads path. An empty path yields an
// empty catalog.
func NewCatalog(fs afero.Fs, path string) (*Catalog, error) {
	c := &Catalog{fs: fs, path: path}
	if path == "" {
		return c, nil
	}
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewStaticCatalog creates a catalog from an in-memory list.
func NewStaticCatalog(providers ...ProviderConfig) (*Catalog, error) {
	normalized, err := normalize(providers)
	if err != nil {
		return nil, err
	}
	return &Catalog{providers: normalized}, nil
}

// Load re-reads the catalog file. On error the previous providers are kept.
func (c *Catalog) Load() error {
	raw, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return fmt.Errorf("read provider catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse provider catalog %s: %w", c.path, err)
	}

	providers, err := normalize(file.Providers)
	if err != nil {
		return fmt.Errorf("provider catalog %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.providers = providers
	c.mu.Unlock()
	return nil
}

func normalize(in []ProviderConfig) ([]ProviderConfig, error) {
	title := cases.Title(language.English)
	seen := make(map[string]bool, len(in))
	out := make([]ProviderConfig, 0, len(in))
	for i, p := range in {
		if p.ID == "" {
			return nil, fmt.Errorf("provider %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true

		u, err := url.Parse(p.AuthorizeURL)
		if err != nil || !u.IsAbs() {
			return nil, fmt.Errorf("provider %q: authorize_url must be an absolute URL", p.ID)
		}
		if p.Name == "" {
			p.Name = title.String(p.ID)
		}
		p.Scopes = append([]string(nil), p.Scopes...)
		out = append(out, p)
	}
	return out, nil
}

// Providers returns a snapshot of the provider list for one page load.
func (c *Catalog) Providers() registration.ProviderList {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make(registration.ProviderList, 0, len(c.providers))
	for _, p := range c.providers {
		list = append(list, registration.Provider{ID: p.ID, Name: p.Name, Icon: p.Icon})
	}
	return list
}

// Lookup returns the provider with the given id.
func (c *Catalog) Lookup(id string) (ProviderConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.providers {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// Watch reloads the catalog whenever its file changes, until ctx is done.
// Only meaningful when the catalog reads from the OS filesystem.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return errors.New("provider catalog has no file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	// Editors replace files on save, so the directory is watched rather than
	// the file itself.
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", c.path, err)
	}

	go c.watchLoop(ctx, watcher)
	slog.Debug("Watching provider catalog", "path", c.path)
	return nil
}

func (c *Catalog) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	target := filepath.Clean(c.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := c.Load(); err != nil {
				slog.Error("Failed to reload provider catalog", "path", c.path, "error", err)
				continue
			}
			slog.Info("Reloaded provider catalog", "path", c.path, "providers", len(c.Providers()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Provider catalog watcher error", "error", err)
		}
	}
}
