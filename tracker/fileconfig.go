package tracker

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/signadot/attachtree/attach"

	"gopkg.in/yaml.v3"
)

// Config represents the tracker configuration file structure.
type Config struct {
	// Schema names the reserved keys of the attachment document.
	Schema *attach.Schema `yaml:"schema"`

	// Watch configures file watching.
	Watch *WatchConfig `yaml:"watch"`
}

// WatchConfig configures how document files are watched.
type WatchConfig struct {
	// Debounce is how long a file must be quiet before it is reloaded.
	Debounce time.Duration `yaml:"debounce"`
}

// LoadConfig loads a configuration file in YAML format.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a configuration, filling unset sections with
// defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	s := attach.DefaultSchema
	if cfg.Schema != nil {
		s = cfg.Schema.WithDefaults()
	}
	cfg.Schema = &s
	if cfg.Watch == nil {
		cfg.Watch = &WatchConfig{Debounce: defaultDebounce}
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	s := attach.DefaultSchema
	return &Config{
		Schema: &s,
		Watch: &WatchConfig{
			Debounce: defaultDebounce,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if s := c.Schema; s != nil {
		if s.AttachmentsKey == s.TypeKey || s.AttachmentsKey == s.ModelNameKey {
			errs = append(errs, fmt.Errorf("schema: attachments key %q is also a property key", s.AttachmentsKey))
		}
		if s.TypeKey == s.ModelNameKey {
			errs = append(errs, fmt.Errorf("schema: type key %q is also the model name key", s.TypeKey))
		}
	}
	if w := c.Watch; w != nil && w.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch: negative debounce %s", w.Debounce))
	}
	return errors.Join(errs...)
}

// Options returns the tracker options selected by c.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Schema != nil {
		opts = append(opts, WithSchema(*c.Schema))
	}
	return opts
}

// WatchOptions returns the Watch options selected by c.
func (c *Config) WatchOptions() WatchOptions {
	var o WatchOptions
	if c.Watch != nil {
		o.Debounce = c.Watch.Debounce
	}
	return o
}
