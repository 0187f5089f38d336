package respimg

import (
	"reflect"
)

// Image is a stored image that exposes pre-generated variant URLs.
// Generating and storing the variants is the attachment library's job.
type Image interface {
	// URL returns the unmodified image URL.
	URL() string

	// VariantURL returns the URL of a named variant. Unregistered variants
	// must produce an error matching ErrUnknownVariant.
	VariantURL(variant string) (string, error)
}

// StaticImage is an Image backed by a fixed variant table.
type StaticImage struct {
	Original string
	Variants map[string]string
}

// NewStaticImage creates a StaticImage with the given original URL and variants.
func NewStaticImage(original string, variants map[string]string) *StaticImage {
	return &StaticImage{
		Original: original,
		Variants: variants,
	}
}

// URL implements Image.
func (i *StaticImage) URL() string {
	return i.Original
}

// VariantURL implements Image.
func (i *StaticImage) VariantURL(variant string) (string, error) {
	url, ok := i.Variants[variant]
	if !ok {
		return "", NewUnknownVariantError(variant)
	}
	return url, nil
}

// lookupURL resolves a configured variant value. An empty value and the
// default sentinel both mean the unmodified URL.
func lookupURL(img Image, variant string) (string, error) {
	if variant == "" || variant == DefaultSentinel {
		return img.URL(), nil
	}
	return img.VariantURL(variant)
}

// isNilImage reports whether img is nil or a typed nil pointer.
func isNilImage(img Image) bool {
	if img == nil {
		return true
	}
	v := reflect.ValueOf(img)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
