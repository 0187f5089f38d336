package respimg

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide responsive image configuration.
// Build it once at startup and hand it to New; per-call changes go through
// Overrides and never modify the value held by the Helper.
type Config struct {
	// Sizes maps variant names (default, desktop, tablet, mobile or
	// modifier-qualified names such as "wide-desktop-hd") to variant identifiers.
	Sizes map[string]string `yaml:"sizes" json:"sizes"`

	// Default is the fallback variant identifier, or DefaultSentinel for the
	// unmodified image URL.
	Default string `yaml:"default" json:"default"`

	// AuthorizedModifiers lists the CSS classes allowed to namespace identifiers.
	AuthorizedModifiers []string `yaml:"authorized_modifiers" json:"authorized_modifiers,omitempty"`

	// Quality is appended to every device identifier when set ("desktop-hd").
	Quality string `yaml:"quality" json:"quality,omitempty"`

	// LazyLoad enables placeholder substitution for elements with the lazy class.
	LazyLoad bool `yaml:"lazy_load" json:"lazy_load"`

	// LazyLoadDefault is the placeholder URL used when lazy loading applies.
	LazyLoadDefault string `yaml:"lazy_load_default" json:"lazy_load_default,omitempty"`
}

// DefaultConfig returns a configuration that renders the unmodified image URL
// for every device.
func DefaultConfig() Config {
	return Config{
		Sizes:   map[string]string{DefaultSentinel: DefaultSentinel},
		Default: DefaultSentinel,
	}
}

// ParseConfig decodes a YAML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Config{}, NewConfigFileError(ErrMsgConfigParse, "", err)
	}

	cfg := DefaultConfig()
	if override.Sizes != nil {
		cfg.Sizes = override.Sizes
	}
	if override.Default != "" {
		cfg.Default = override.Default
	}
	cfg.AuthorizedModifiers = override.AuthorizedModifiers
	cfg.Quality = override.Quality
	cfg.LazyLoad = override.LazyLoad
	cfg.LazyLoadDefault = override.LazyLoadDefault

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ConfigFileExtYAML, ConfigFileExtYML:
	default:
		return Config{}, NewConfigFileError(ErrMsgUnsupportedFileType, path, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, NewConfigFileError(ErrMsgConfigRead, path, err)
	}

	return ParseConfig(data)
}

// Validate checks the configuration for values that can never resolve.
func (c Config) Validate() error {
	if c.Default == "" {
		return NewConfigError(ErrMsgEmptyDefault, "default", c.Default)
	}
	for key := range c.Sizes {
		if strings.TrimSpace(key) == "" {
			return NewConfigError(ErrMsgEmptySizeKey, "sizes", key)
		}
	}
	for _, m := range c.AuthorizedModifiers {
		if m == "" {
			return NewConfigError(ErrMsgEmptyModifier, "authorized_modifiers", m)
		}
		if strings.IndexFunc(m, unicode.IsSpace) >= 0 {
			return NewConfigError(ErrMsgModifierWhitespace, "authorized_modifiers", m)
		}
	}
	if strings.IndexFunc(c.Quality, unicode.IsSpace) >= 0 {
		return NewConfigError(ErrMsgQualityWhitespace, "quality", c.Quality)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	out := c
	if c.Sizes != nil {
		out.Sizes = make(map[string]string, len(c.Sizes))
		for k, v := range c.Sizes {
			out.Sizes[k] = v
		}
	}
	if c.AuthorizedModifiers != nil {
		out.AuthorizedModifiers = append([]string(nil), c.AuthorizedModifiers...)
	}
	return out
}

// Size returns the variant identifier configured for a size key.
// An empty value counts as absent.
func (c Config) Size(key string) (string, bool) {
	v, ok := c.Sizes[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// IsAuthorizedModifier reports whether class may namespace identifiers.
func (c Config) IsAuthorizedModifier(class string) bool {
	for _, m := range c.AuthorizedModifiers {
		if m == class {
			return true
		}
	}
	return false
}

// Overrides holds per-call configuration changes. Nil fields inherit the
// Helper's configuration.
type Overrides struct {
	// Sizes entries are merged key by key over the configured sizes.
	Sizes map[string]string

	Default *string

	// AuthorizedModifiers replaces the configured list when non-nil.
	AuthorizedModifiers []string

	Quality         *string
	LazyLoad        *bool
	LazyLoadDefault *string
}

// IsZero reports whether o changes nothing.
func (o Overrides) IsZero() bool {
	return len(o.Sizes) == 0 &&
		o.Default == nil &&
		o.AuthorizedModifiers == nil &&
		o.Quality == nil &&
		o.LazyLoad == nil &&
		o.LazyLoadDefault == nil
}

// Merge returns the effective configuration for a call: c with o applied.
// c itself is never modified.
func (c Config) Merge(o Overrides) (Config, error) {
	out := c.Clone()
	if len(o.Sizes) > 0 {
		if out.Sizes == nil {
			out.Sizes = make(map[string]string, len(o.Sizes))
		}
		if err := mergeSizes(&out.Sizes, o.Sizes); err != nil {
			return c, err
		}
	}
	if o.Default != nil {
		out.Default = *o.Default
	}
	if o.AuthorizedModifiers != nil {
		out.AuthorizedModifiers = append([]string(nil), o.AuthorizedModifiers...)
	}
	if o.Quality != nil {
		out.Quality = *o.Quality
	}
	if o.LazyLoad != nil {
		out.LazyLoad = *o.LazyLoad
	}
	if o.LazyLoadDefault != nil {
		out.LazyLoadDefault = *o.LazyLoadDefault
	}
	return out, nil
}

// mergeSizes overlays src onto dst key by key. Empty src values apply too.
func mergeSizes(dst *map[string]string, src map[string]string) error {
	if err := mergo.Merge(dst, src, mergo.WithOverride); err != nil {
		return NewConfigMergeError("sizes", err)
	}
	return nil
}

// String returns a pointer to s, for building Overrides.
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for building Overrides.
func Bool(b bool) *bool {
	return &b
}
