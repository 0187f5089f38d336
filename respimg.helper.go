package respimg

import (
	"context"
	"html/template"
	"strings"

	"github.com/itsatony/go-respimg/internal"
	"go.uber.org/zap"
)

// Helper renders responsive image markup from an immutable configuration.
// A Helper is safe for concurrent use.
type Helper struct {
	config Config
	logger *zap.Logger
}

// New creates a Helper for cfg. The configuration is validated and copied;
// later changes to cfg do not affect the Helper.
func New(cfg Config, opts ...Option) (*Helper, error) {
	hc := defaultHelperConfig()
	for _, opt := range opts {
		opt(hc)
	}

	logger := hc.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug(LogMsgHelperCreated,
		zap.Int("sizes", len(cfg.Sizes)),
		zap.Strings("modifiers", cfg.AuthorizedModifiers),
		zap.Bool("lazy_load", cfg.LazyLoad),
	)

	return &Helper{
		config: cfg.Clone(),
		logger: logger,
	}, nil
}

// MustNew creates a Helper and panics if the configuration is invalid.
func MustNew(cfg Config, opts ...Option) *Helper {
	h, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return h
}

// Config returns a copy of the helper's configuration.
func (h *Helper) Config() Config {
	return h.config.Clone()
}

// Resolve returns the effective configuration for a call.
func (h *Helper) Resolve(o Overrides) (Config, error) {
	cfg, err := h.config.Merge(o)
	if err != nil {
		h.logger.Warn(LogMsgOverridesFailed, zap.Error(err))
		return Config{}, err
	}
	return cfg, nil
}

// Identifiers returns the size keys for a call's options.
func (h *Helper) Identifiers(opts TagOptions) (Identifiers, error) {
	cfg, err := h.Resolve(opts.Overrides)
	if err != nil {
		return Identifiers{}, err
	}
	return ResolveIdentifiers(cfg, opts.class()), nil
}

// PrimaryURL returns the src URL for the device stored in ctx.
func (h *Helper) PrimaryURL(ctx context.Context, img Image, opts TagOptions) (string, error) {
	if isNilImage(img) {
		return "", nil
	}
	cfg, err := h.Resolve(opts.Overrides)
	if err != nil {
		return "", err
	}
	device, _ := DeviceFromContext(ctx)
	return h.primary(img, cfg, device, ResolveIdentifiers(cfg, opts.class()))
}

// AlternativeSizes returns the data-<device>-src attributes for a call's options.
func (h *Helper) AlternativeSizes(img Image, opts TagOptions) (Attributes, error) {
	if isNilImage(img) {
		return nil, nil
	}
	cfg, err := h.Resolve(opts.Overrides)
	if err != nil {
		return nil, err
	}
	return AlternativeSizes(img, cfg, ResolveIdentifiers(cfg, opts.class()))
}

// Setup assembles the primary URL and the attribute map for img.
//
// The attribute map holds the three data-<device>-src attributes overlaid
// with the caller's pass-through attributes. When lazy loading is enabled and
// the class list contains "lazy", the resolved URL moves to data-original and
// the returned URL becomes the configured placeholder. A nil img returns
// empty results.
func (h *Helper) Setup(ctx context.Context, img Image, opts TagOptions) (string, Attributes, error) {
	if isNilImage(img) {
		h.logger.Debug(LogMsgNilImage)
		return "", nil, nil
	}

	cfg, err := h.Resolve(opts.Overrides)
	if err != nil {
		return "", nil, err
	}
	class := opts.class()
	ids := ResolveIdentifiers(cfg, class)
	device, _ := DeviceFromContext(ctx)

	h.logger.Debug(LogMsgSetup,
		zap.String(LogFieldDevice, device.String()),
		zap.String(LogFieldClass, class),
		zap.String(LogFieldModifier, ids.Modifier),
	)

	alternatives, err := AlternativeSizes(img, cfg, ids)
	if err != nil {
		h.logger.Warn(LogMsgAlternativesFailed, zap.Error(err))
		return "", nil, err
	}
	passThrough := opts.passThrough()
	if err := passThrough.Validate(); err != nil {
		return "", nil, err
	}
	attrs := alternatives.Merge(passThrough)

	src, err := h.primary(img, cfg, device, ids)
	if err != nil {
		return "", nil, err
	}

	if cfg.LazyLoad && hasClass(class, LazyClass) {
		attrs[AttrDataOriginal] = src
		src = cfg.LazyLoadDefault
		h.logger.Debug(LogMsgLazyLoadApplied, zap.String(LogFieldURL, src))
	}

	return src, attrs, nil
}

// ImageTag renders an <img> element for img. A nil img renders nothing.
func (h *Helper) ImageTag(ctx context.Context, img Image, opts TagOptions) (template.HTML, error) {
	if isNilImage(img) {
		return "", nil
	}

	src, attrs, err := h.Setup(ctx, img, opts)
	if err != nil {
		return "", err
	}

	all := attrs.Clone()
	all[AttrSrc] = src

	out, err := internal.RenderVoidElement(ElementImg, internal.OrderedAttrs(all, AttrSrc))
	if err != nil {
		return "", NewRenderError(err)
	}
	return template.HTML(out), nil
}

// BackgroundImage returns the attributes of an element using img as its CSS
// background: a style attribute with the primary URL plus everything Setup
// produces. Caller attributes, including style, win. A nil img returns nil.
func (h *Helper) BackgroundImage(ctx context.Context, img Image, opts TagOptions) (Attributes, error) {
	if isNilImage(img) {
		return nil, nil
	}

	src, attrs, err := h.Setup(ctx, img, opts)
	if err != nil {
		return nil, err
	}

	style := Attributes{AttrStyle: BackgroundStyle(src)}
	return style.Merge(attrs), nil
}

// BackgroundStyle returns the CSS declaration for a background image URL.
func BackgroundStyle(url string) string {
	return BackgroundStyleOpen + url + BackgroundStyleEnd
}

// FuncMap returns html/template functions bound to ctx (and so to the
// request's device):
//
//	{{ responsiveImageTag .Photo "hero lazy" }}
//	<div {{ responsiveBackgroundImage .Banner "wide" }}></div>
//	<span {{ responsiveAttrs .Extra }}></span>
func (h *Helper) FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		FuncNameImageTag: func(img Image, class ...string) (template.HTML, error) {
			return h.ImageTag(ctx, img, TagOptions{Class: strings.Join(class, ClassSeparator)})
		},
		FuncNameBackgroundImage: func(img Image, class ...string) (template.HTMLAttr, error) {
			attrs, err := h.BackgroundImage(ctx, img, TagOptions{Class: strings.Join(class, ClassSeparator)})
			if err != nil {
				return "", err
			}
			return attrs.HTMLAttr(), nil
		},
		FuncNameAttrs: func(attrs Attributes) (template.HTMLAttr, error) {
			if err := attrs.Validate(); err != nil {
				return "", err
			}
			return attrs.HTMLAttr(), nil
		},
	}
}

// primary resolves the primary URL and logs how it was obtained.
func (h *Helper) primary(img Image, cfg Config, device Device, ids Identifiers) (string, error) {
	res := resolvePrimary(img, cfg, device, ids)
	switch {
	case !res.known:
		h.logger.Debug(LogMsgUnknownDevice, zap.String(LogFieldDevice, device.String()))
	case res.fallback:
		h.logger.Warn(LogMsgVariantFallback,
			zap.String(LogFieldDevice, device.String()),
			zap.String(LogFieldVariant, res.variant),
			zap.String(LogFieldURL, res.url),
		)
	case res.cause == nil:
		h.logger.Debug(LogMsgPrimaryResolved,
			zap.String(LogFieldDevice, device.String()),
			zap.String(LogFieldVariant, res.variant),
			zap.String(LogFieldURL, res.url),
		)
	}
	return res.url, res.cause
}
