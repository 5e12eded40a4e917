package config

import (
	"os"
	"path/filepath"
	"sync"

	"encoding/json"

	"github.com/porthole-sh/porthole/internal/errors"
)

// Sidebar width bounds in columns.
const (
	SidebarWidthMin     = 20
	SidebarWidthMax     = 60
	SidebarWidthDefault = 28
)

// DefaultServerURL is used when the config carries no server address and
// no --server flag was given.
const DefaultServerURL = "http://localhost:4020"

// Config holds the client configuration and user preferences.
type Config struct {
	ServerURL string `json:"server_url,omitempty"` // Base URL of the terminal server
	Token     string `json:"token,omitempty"`      // Bearer token from the last login

	SidebarCollapsed     bool   `json:"sidebar_collapsed,omitempty"`     // Directory sidebar collapsed
	SidebarWidth         int    `json:"sidebar_width,omitempty"`         // Sidebar width in columns
	HideExited           bool   `json:"hide_exited,omitempty"`           // Filter exited sessions from the sidebar
	AnimationsDisabled   bool   `json:"animations_disabled,omitempty"`   // Force immediate view transitions
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notification when the focused session disappears
	Theme                string `json:"theme,omitempty"`                 // UI theme name

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".porthole"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// defaults returns a Config populated with safe defaults.
func defaults(path string) *Config {
	return &Config{
		ServerURL:            DefaultServerURL,
		SidebarWidth:         SidebarWidthDefault,
		NotificationsEnabled: true,
		filePath:             path,
	}
}

// Load reads the config from disk. A missing or unreadable file yields
// defaults rather than an error so a corrupt config never blocks startup.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, errors.ConfigLoadFailed("", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := defaults(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return defaults(path), nil
	}

	// Normalize after unmarshaling, before anything reads the values
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized normalizes zero and out-of-range values after
// unmarshaling.
//
// Thread-safety: NOT thread-safe; only called from LoadFrom() before the
// Config is shared across goroutines.
func (c *Config) ensureInitialized() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.SidebarWidth == 0 {
		c.SidebarWidth = SidebarWidthDefault
	}
	c.SidebarWidth = clampSidebarWidth(c.SidebarWidth)
}

func clampSidebarWidth(w int) int {
	if w < SidebarWidthMin {
		return SidebarWidthMin
	}
	if w > SidebarWidthMax {
		return SidebarWidthMax
	}
	return w
}

// Validate checks that the config is internally consistent.
// This is a read-only operation.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.SidebarWidth < SidebarWidthMin || c.SidebarWidth > SidebarWidthMax {
		return errors.ConfigInvalid("sidebar width out of range")
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// GetServerURL returns the configured server base URL
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerURL
}

// SetServerURL sets the server base URL
func (c *Config) SetServerURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = url
}

// GetToken returns the stored auth token, or empty string if logged out
func (c *Config) GetToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Token
}

// SetToken stores the auth token. Pass empty string on logout.
func (c *Config) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Token = token
}

// GetSidebarCollapsed returns the persisted sidebar collapse preference
func (c *Config) GetSidebarCollapsed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SidebarCollapsed
}

// SetSidebarCollapsed sets the persisted sidebar collapse preference
func (c *Config) SetSidebarCollapsed(collapsed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SidebarCollapsed = collapsed
}

// GetSidebarWidth returns the sidebar width in columns
func (c *Config) GetSidebarWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.SidebarWidth == 0 {
		return SidebarWidthDefault
	}
	return c.SidebarWidth
}

// SetSidebarWidth sets the sidebar width, clamped to the allowed range
func (c *Config) SetSidebarWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SidebarWidth = clampSidebarWidth(width)
}

// GetHideExited returns whether exited sessions are filtered from the sidebar
func (c *Config) GetHideExited() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.HideExited
}

// SetHideExited sets the exited-session filter
func (c *Config) SetHideExited(hide bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.HideExited = hide
}

// GetAnimationsDisabled returns whether view transitions are forced immediate
func (c *Config) GetAnimationsDisabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AnimationsDisabled
}

// SetAnimationsDisabled sets whether view transitions are forced immediate
func (c *Config) SetAnimationsDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AnimationsDisabled = disabled
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}
