package respimg

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring the Helper.
type Option func(*helperConfig)

// helperConfig holds the internal configuration for a Helper.
type helperConfig struct {
	logger *zap.Logger
}

// defaultHelperConfig returns the default helper configuration.
func defaultHelperConfig() *helperConfig {
	return &helperConfig{
		logger: nil,
	}
}

// WithLogger sets the logger for the helper.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *helperConfig) {
		c.logger = logger
	}
}

// TagOptions are the per-call options of ImageTag, BackgroundImage and Setup.
type TagOptions struct {
	// Class is the element's space-separated CSS class list. It selects
	// modifiers and lazy loading and is rendered as the class attribute.
	Class string

	// Attributes are passed through to the output and win over generated
	// attributes on key collisions.
	Attributes Attributes

	// Overrides adjust the configuration for this call only.
	Overrides Overrides
}

// class returns the effective class list: Class, or the class pass-through
// attribute when Class is empty.
func (o TagOptions) class() string {
	if o.Class != "" {
		return o.Class
	}
	return o.Attributes[AttrClass]
}

// passThrough returns the caller attributes including class.
func (o TagOptions) passThrough() Attributes {
	attrs := o.Attributes.Clone()
	if o.Class != "" {
		attrs[AttrClass] = o.Class
	}
	return attrs
}

// StoreOption configures the filesystem and cached attachment stores.
type StoreOption func(*storeOptions)

type storeOptions struct {
	logger          *zap.Logger
	ttl             time.Duration
	negativeTTL     time.Duration
	cleanupInterval time.Duration
}

func defaultStoreOptions() *storeOptions {
	return &storeOptions{
		ttl:             CacheDefaultTTL,
		negativeTTL:     CacheDefaultNegativeTTL,
		cleanupInterval: CacheDefaultCleanupInterval,
	}
}

func applyStoreOptions(opts []StoreOption) *storeOptions {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// WithStoreLogger sets the logger used by a store.
func WithStoreLogger(logger *zap.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithCacheTTL sets how long CachedStore keeps hits and misses.
// A zero negativeTTL disables caching of misses.
func WithCacheTTL(ttl, negativeTTL time.Duration) StoreOption {
	return func(o *storeOptions) {
		o.ttl = ttl
		o.negativeTTL = negativeTTL
	}
}
