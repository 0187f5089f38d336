// Package respimg renders responsive <img> tags and CSS background images
// from pre-generated image variants.
//
// A single configuration maps size identifiers to variant names. For each
// element the helper emits three data attributes (data-desktop-src,
// data-tablet-src, data-mobile-src) so client-side code can swap the source
// after layout, and picks the src for the device detected on the request:
//
//	<img src="/m/hero-700.jpg" data-desktop-src="/hero.jpg"
//	     data-tablet-src="/m/hero-1024.jpg" data-mobile-src="/m/hero-700.jpg"/>
//
// # Basic Usage
//
//	helper := respimg.MustNew(respimg.Config{
//	    Sizes: map[string]string{
//	        "desktop": "default",
//	        "tablet":  "w1024",
//	        "mobile":  "w700",
//	    },
//	    Default: "default",
//	})
//
//	ctx = respimg.WithDevice(ctx, respimg.DeviceMobile)
//	tag, err := helper.ImageTag(ctx, img, respimg.TagOptions{Class: "hero"})
//
// # Identifiers and Modifiers
//
// Size identifiers are the device name, suffixed with "-<quality>" when a
// quality is configured and prefixed with "<modifier>-" when the element's
// class list contains an authorized modifier:
//
//	Quality: "hd", AuthorizedModifiers: ["wide"], class "wide hero"
//	=> wide-desktop-hd, wide-tablet-hd, wide-mobile-hd
//
// # Devices
//
// The device comes from the request context. DeviceMiddleware stores the
// result of a DeviceDetector such as HeaderDetector:
//
//	handler = respimg.DeviceMiddleware(respimg.HeaderDetector{}, logger)(handler)
//
// # Lazy Loading
//
// With LazyLoad enabled, elements whose class list contains "lazy" get the
// resolved URL in data-original and LazyLoadDefault as src.
//
// # Templates
//
// FuncMap exposes the helper to html/template:
//
//	tmpl := template.New("page").Funcs(helper.FuncMap(r.Context()))
//	// {{ responsiveImageTag .Photo "hero lazy" }}
//
// # Attachment Stores
//
// Attachment implements Image and can be kept in any AttachmentStore opened
// through the driver registry ("memory", "filesystem", "postgres", "mysql"):
//
//	store, err := respimg.OpenStore("filesystem", "./attachments")
//	cached := respimg.NewCachedStore(store)
package respimg
