package respimg

// primaryResult describes how a primary URL was obtained.
type primaryResult struct {
	url      string
	variant  string
	fallback bool
	cause    error
	known    bool
}

// PrimaryURL selects the image URL used as the element's src for device.
//
// Desktop uses the unmodified URL when cfg.Default is the default sentinel,
// otherwise the variant configured for the desktop identifier. Tablet and
// mobile use their configured variant, or cfg.Default when none is set.
// Unknown-variant errors are recovered: the unmodified URL is used when
// cfg.Default is the sentinel, else the literal "default" variant (and the
// unmodified URL if the image has no such variant). Any other image error
// is returned. A device outside desktop/tablet/mobile yields "".
func PrimaryURL(img Image, cfg Config, device Device, ids Identifiers) (string, error) {
	res := resolvePrimary(img, cfg, device, ids)
	return res.url, res.cause
}

func resolvePrimary(img Image, cfg Config, device Device, ids Identifiers) primaryResult {
	id, ok := ids.For(device)
	if !ok {
		return primaryResult{}
	}

	var variant string
	switch device {
	case DeviceDesktop:
		if cfg.Default == DefaultSentinel {
			return primaryResult{url: img.URL(), variant: DefaultSentinel, known: true}
		}
		variant, _ = cfg.Size(id)
	default:
		if v, ok := cfg.Size(id); ok {
			variant = v
		} else {
			variant = cfg.Default
		}
	}

	url, err := lookupURL(img, variant)
	if err == nil {
		return primaryResult{url: url, variant: variant, known: true}
	}
	if !IsUnknownVariant(err) {
		return primaryResult{variant: variant, cause: err, known: true}
	}

	return primaryResult{
		url:      fallbackURL(img, cfg),
		variant:  variant,
		fallback: true,
		known:    true,
	}
}

func fallbackURL(img Image, cfg Config) string {
	if cfg.Default == DefaultSentinel {
		return img.URL()
	}
	url, err := img.VariantURL(DefaultSentinel)
	if err != nil {
		return img.URL()
	}
	return url
}

// AlternativeSizes builds the data-desktop-src, data-tablet-src and
// data-mobile-src attributes. Each device's identifier is looked up in
// cfg.Sizes; a missing entry or the default sentinel yields the unmodified
// URL. Unknown-variant errors are returned to the caller, not recovered.
func AlternativeSizes(img Image, cfg Config, ids Identifiers) (Attributes, error) {
	attrs := make(Attributes, len(Devices))
	for _, d := range Devices {
		id, _ := ids.For(d)
		variant, _ := cfg.Size(id)
		url, err := lookupURL(img, variant)
		if err != nil {
			return nil, err
		}
		attrs[DataSrcAttr(d)] = url
	}
	return attrs, nil
}

// DataSrcAttr returns the data attribute name holding device's URL.
func DataSrcAttr(d Device) string {
	return AttrDataPrefix + d.String() + AttrDataSuffix
}
