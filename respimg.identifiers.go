package respimg

import (
	"strings"
)

// Identifiers holds the keys used to look up each device's variant in Config.Sizes.
type Identifiers struct {
	Desktop string
	Tablet  string
	Mobile  string

	// Modifier is the authorized CSS class that prefixed the identifiers, if any.
	Modifier string
}

// For returns the identifier of device d.
// The second return value is false for an unknown device.
func (ids Identifiers) For(d Device) (string, bool) {
	switch d {
	case DeviceDesktop:
		return ids.Desktop, true
	case DeviceTablet:
		return ids.Tablet, true
	case DeviceMobile:
		return ids.Mobile, true
	default:
		return "", false
	}
}

// ResolveIdentifiers computes the desktop, tablet and mobile size keys.
//
// Base identifiers are the device names, suffixed with "-<quality>" when
// cfg.Quality is set. When class contains an authorized modifier, the first
// one in class order prefixes every identifier ("<modifier>-<base>").
func ResolveIdentifiers(cfg Config, class string) Identifiers {
	ids := Identifiers{
		Desktop: baseIdentifier(DeviceDesktop, cfg.Quality),
		Tablet:  baseIdentifier(DeviceTablet, cfg.Quality),
		Mobile:  baseIdentifier(DeviceMobile, cfg.Quality),
	}

	modifier, ok := firstModifier(cfg, class)
	if !ok {
		return ids
	}

	ids.Modifier = modifier
	ids.Desktop = modifier + IdentifierSeparator + ids.Desktop
	ids.Tablet = modifier + IdentifierSeparator + ids.Tablet
	ids.Mobile = modifier + IdentifierSeparator + ids.Mobile
	return ids
}

func baseIdentifier(d Device, quality string) string {
	if quality == "" {
		return d.String()
	}
	return d.String() + IdentifierSeparator + quality
}

// firstModifier returns the first class token found in cfg.AuthorizedModifiers.
func firstModifier(cfg Config, class string) (string, bool) {
	if class == "" || len(cfg.AuthorizedModifiers) == 0 {
		return "", false
	}
	for _, token := range strings.Fields(class) {
		if cfg.IsAuthorizedModifier(token) {
			return token, true
		}
	}
	return "", false
}

// hasClass reports whether the space-separated class list contains token.
func hasClass(class, token string) bool {
	for _, c := range strings.Fields(class) {
		if c == token {
			return true
		}
	}
	return false
}
