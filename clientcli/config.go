package clientcli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:9980"

// Profile holds configuration for a single server profile.
type Profile struct {
	Name     string `yaml:"name"`
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Site     string `yaml:"site,omitempty"`
	Camera   string `yaml:"camera,omitempty"`
	Default  bool   `yaml:"default,omitempty"`
}

// ConfigFile is the client profile file: one profile per camupload server.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

func (c *ConfigFile) index(name string) int {
	return slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
}

// check rejects profiles that could never authenticate.
func (p *Profile) check() error {
	if p.Name == "" {
		return ErrProfileNameRequired
	}
	if p.Username != "" && p.Password == "" {
		return fmt.Errorf("profile %s: %w", p.Name, ErrPasswordRequired)
	}
	return nil
}

// GetProfile returns the named profile, or the default profile when name
// is empty.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}
	if name == "" {
		return c.GetDefaultProfile()
	}

	i := c.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return &c.Profiles[i], nil
}

// GetDefaultProfile returns the profile marked as default, falling back to
// the first one.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if i := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Default }); i >= 0 {
		return &c.Profiles[i], nil
	}
	return &c.Profiles[0], nil
}

// AddProfile appends p. It fails with ErrProfileExists when the name is
// taken; use UpdateProfile to replace a profile.
func (c *ConfigFile) AddProfile(p Profile) error {
	if err := p.check(); err != nil {
		return err
	}
	if c.index(p.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile replaces the profile with the same name.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	if err := p.check(); err != nil {
		return err
	}
	i := c.index(p.Name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
	}
	c.Profiles[i] = p
	return nil
}

// RemoveProfile removes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	return nil
}

// SetDefault marks name as the only default profile.
func (c *ConfigFile) SetDefault(name string) error {
	if c.index(name) < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	for i := range c.Profiles {
		c.Profiles[i].Default = c.Profiles[i].Name == name
	}
	return nil
}

// ProfileNames returns the profile names in file order.
func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// Save writes the profile file to path, owner-readable only since it holds
// upload tokens and passwords. The parent directory is created if needed
// and the file is replaced through a rename.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}

	tmp := cleanPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	if err := os.Rename(tmp, cleanPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace profile file: %w", err)
	}

	return nil
}

// LoadConfigFile reads the profile file at path.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided profile file
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse profile file: %w", err)
	}

	return &cfg, nil
}

// DefaultConfigPath returns the default config file path (~/.camupload/client.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".camupload", "client.yaml")
}

// Config holds resolved client configuration for a single server.
// This is what the Client uses after profile resolution.
type Config struct {
	Endpoint string
	Token    string
	Username string
	Password string
	Site     string
	Camera   string
}

// Validate checks that basic credentials are complete.
func (c *Config) Validate() error {
	if c.Username != "" && c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// WithDefaults returns a copy of the config with default values applied.
// If Endpoint is empty, it defaults to DefaultEndpoint.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// ConfigFromProfile creates a Config from a Profile.
func ConfigFromProfile(p *Profile) *Config {
	if p == nil {
		return &Config{}
	}
	return &Config{
		Endpoint: p.Endpoint,
		Token:    p.Token,
		Username: p.Username,
		Password: p.Password,
		Site:     p.Site,
		Camera:   p.Camera,
	}
}

// ConfigFromEnv loads config from environment variables.
func ConfigFromEnv() *Config {
	return &Config{
		Endpoint: os.Getenv("CAMUPLOAD_ENDPOINT"),
		Token:    os.Getenv("CAMUPLOAD_TOKEN"),
		Username: os.Getenv("CAMUPLOAD_USERNAME"),
		Password: os.Getenv("CAMUPLOAD_PASSWORD"),
		Site:     os.Getenv("CAMUPLOAD_SITE"),
		Camera:   os.Getenv("CAMUPLOAD_CAMERA"),
	}
}

// ProfileFromEnv returns the profile name from CAMUPLOAD_PROFILE environment variable.
func ProfileFromEnv() string {
	return os.Getenv("CAMUPLOAD_PROFILE")
}

// ConfigPathFromEnv returns the config file path from CAMUPLOAD_CLIENT_CONFIG environment variable.
func ConfigPathFromEnv() string {
	return os.Getenv("CAMUPLOAD_CLIENT_CONFIG")
}

// MergeConfig merges multiple configs, with later configs taking precedence.
// Empty strings in later configs do not override non-empty values in earlier configs.
func MergeConfig(configs ...*Config) *Config {
	result := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Endpoint != "" {
			result.Endpoint = cfg.Endpoint
		}
		if cfg.Token != "" {
			result.Token = cfg.Token
		}
		if cfg.Username != "" {
			result.Username = cfg.Username
		}
		if cfg.Password != "" {
			result.Password = cfg.Password
		}
		if cfg.Site != "" {
			result.Site = cfg.Site
		}
		if cfg.Camera != "" {
			result.Camera = cfg.Camera
		}
	}
	return result
}
