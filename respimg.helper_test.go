package respimg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHelper(t *testing.T, mutate func(*Config)) *Helper {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	h, err := New(cfg)
	require.NoError(t, err)
	return h
}

func deviceCtx(d Device) context.Context {
	return WithDevice(context.Background(), d)
}

func TestNew(t *testing.T) {
	t.Run("copies configuration", func(t *testing.T) {
		cfg := testConfig()
		h, err := New(cfg)
		require.NoError(t, err)

		cfg.Sizes["tablet"] = "changed"
		assert.Equal(t, "w1024", h.Config().Sizes["tablet"])

		got := h.Config()
		got.Sizes["mobile"] = "changed"
		assert.Equal(t, "w700", h.Config().Sizes["mobile"])
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyDefault)
	})

	t.Run("nil logger is allowed", func(t *testing.T) {
		h, err := New(DefaultConfig(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, h.logger)
	})

	t.Run("MustNew panics on invalid config", func(t *testing.T) {
		assert.Panics(t, func() { MustNew(Config{}) })
		assert.NotPanics(t, func() { MustNew(DefaultConfig()) })
	})
}

func TestHelper_NilImage(t *testing.T) {
	h := newTestHelper(t, nil)
	ctx := deviceCtx(DeviceMobile)
	var typedNil *StaticImage

	for name, img := range map[string]Image{"nil": nil, "typed nil": typedNil} {
		t.Run(name, func(t *testing.T) {
			tag, err := h.ImageTag(ctx, img, TagOptions{Class: "lazy"})
			require.NoError(t, err)
			assert.Empty(t, tag)

			attrs, err := h.BackgroundImage(ctx, img, TagOptions{})
			require.NoError(t, err)
			assert.Nil(t, attrs)

			src, attrs, err := h.Setup(ctx, img, TagOptions{})
			require.NoError(t, err)
			assert.Empty(t, src)
			assert.Nil(t, attrs)
		})
	}
}

func TestHelper_Setup(t *testing.T) {
	t.Run("mobile with class", func(t *testing.T) {
		h := newTestHelper(t, nil)
		src, attrs, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), TagOptions{Class: "hero"})
		require.NoError(t, err)

		assert.Equal(t, "/img/hero-700.jpg", src)
		assert.Equal(t, Attributes{
			"class":            "hero",
			"data-desktop-src": "/img/hero-1600.jpg",
			"data-tablet-src":  "/img/hero-1024.jpg",
			"data-mobile-src":  "/img/hero-700.jpg",
		}, attrs)
	})

	t.Run("caller attributes win", func(t *testing.T) {
		h := newTestHelper(t, nil)
		_, attrs, err := h.Setup(deviceCtx(DeviceTablet), newTestImage(), TagOptions{
			Attributes: Attributes{"data-mobile-src": "/custom.jpg", "alt": "Hero"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/custom.jpg", attrs["data-mobile-src"])
		assert.Equal(t, "Hero", attrs["alt"])
		assert.False(t, attrs.Has(AttrClass))
	})

	t.Run("class attribute selects modifier", func(t *testing.T) {
		h := newTestHelper(t, func(c *Config) { c.Sizes["wide-tablet"] = "w1600" })
		src, attrs, err := h.Setup(deviceCtx(DeviceTablet), newTestImage(), TagOptions{
			Attributes: Attributes{AttrClass: "wide"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/img/hero-1600.jpg", src)
		assert.Equal(t, "wide", attrs[AttrClass])
	})

	t.Run("no device in context", func(t *testing.T) {
		h := newTestHelper(t, nil)
		src, attrs, err := h.Setup(context.Background(), newTestImage(), TagOptions{})
		require.NoError(t, err)
		assert.Empty(t, src)
		assert.Len(t, attrs, 3)
	})

	t.Run("alternative errors propagate", func(t *testing.T) {
		h := newTestHelper(t, func(c *Config) { c.Sizes["desktop"] = "missing" })
		_, _, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), TagOptions{})
		require.Error(t, err)
		assert.True(t, IsUnknownVariant(err))
	})

	t.Run("per-call overrides", func(t *testing.T) {
		h := newTestHelper(t, nil)
		opts := TagOptions{
			Class: "promo",
			Overrides: Overrides{
				Sizes:               map[string]string{"promo-mobile": "w1024"},
				AuthorizedModifiers: []string{"promo"},
			},
		}
		src, _, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), opts)
		require.NoError(t, err)
		assert.Equal(t, "/img/hero-1024.jpg", src)
		ids, err := h.Identifiers(opts)
		require.NoError(t, err)
		assert.Equal(t, "promo-mobile", ids.Mobile)

		_, ok := h.Config().Sizes["promo-mobile"]
		assert.False(t, ok, "helper configuration untouched")
	})
}

func TestHelper_LazyLoad(t *testing.T) {
	lazy := func(c *Config) {
		c.LazyLoad = true
		c.LazyLoadDefault = "/blank.gif"
	}

	t.Run("lazy class swaps in placeholder", func(t *testing.T) {
		h := newTestHelper(t, lazy)
		src, attrs, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), TagOptions{Class: "lazy"})
		require.NoError(t, err)
		assert.Equal(t, "/blank.gif", src)
		assert.Equal(t, "/img/hero-700.jpg", attrs[AttrDataOriginal])
	})

	t.Run("without lazy class", func(t *testing.T) {
		h := newTestHelper(t, lazy)
		src, attrs, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), TagOptions{Class: "hero"})
		require.NoError(t, err)
		assert.Equal(t, "/img/hero-700.jpg", src)
		assert.False(t, attrs.Has(AttrDataOriginal))
	})

	t.Run("disabled lazy load ignores class", func(t *testing.T) {
		h := newTestHelper(t, nil)
		src, attrs, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), TagOptions{Class: "lazy"})
		require.NoError(t, err)
		assert.Equal(t, "/img/hero-700.jpg", src)
		assert.False(t, attrs.Has(AttrDataOriginal))
	})

	t.Run("unset placeholder gives empty src", func(t *testing.T) {
		h := newTestHelper(t, func(c *Config) { c.LazyLoad = true })
		tag, err := h.ImageTag(deviceCtx(DeviceDesktop), newTestImage(), TagOptions{Class: "lazy"})
		require.NoError(t, err)
		assert.Contains(t, string(tag), `<img src="" `)
		assert.Contains(t, string(tag), `data-original="/img/hero.jpg"`)
	})

	t.Run("enabled per call", func(t *testing.T) {
		h := newTestHelper(t, nil)
		src, _, err := h.Setup(deviceCtx(DeviceMobile), newTestImage(), TagOptions{
			Class:     "lazy",
			Overrides: Overrides{LazyLoad: Bool(true), LazyLoadDefault: String("/spin.gif")},
		})
		require.NoError(t, err)
		assert.Equal(t, "/spin.gif", src)
	})
}

func TestHelper_ImageTag(t *testing.T) {
	t.Run("renders element", func(t *testing.T) {
		h := newTestHelper(t, nil)
		tag, err := h.ImageTag(deviceCtx(DeviceMobile), newTestImage(), TagOptions{
			Class:      "hero",
			Attributes: Attributes{"alt": "Team photo"},
		})
		require.NoError(t, err)
		assert.Equal(t, template.HTML(
			`<img src="/img/hero-700.jpg" alt="Team photo" class="hero"`+
				` data-desktop-src="/img/hero-1600.jpg" data-mobile-src="/img/hero-700.jpg"`+
				` data-tablet-src="/img/hero-1024.jpg"/>`), tag)
	})

	t.Run("escapes attribute values", func(t *testing.T) {
		h := MustNew(DefaultConfig())
		img := NewStaticImage("/a.jpg?w=1&h=2", nil)
		tag, err := h.ImageTag(deviceCtx(DeviceDesktop), img, TagOptions{
			Attributes: Attributes{"alt": `"quoted" <b>`},
		})
		require.NoError(t, err)
		assert.Contains(t, string(tag), `src="/a.jpg?w=1&amp;h=2"`)
		assert.Contains(t, string(tag), `alt="&#34;quoted&#34; &lt;b&gt;"`)
	})

	t.Run("generated src wins over pass-through src", func(t *testing.T) {
		h := newTestHelper(t, nil)
		tag, err := h.ImageTag(deviceCtx(DeviceTablet), newTestImage(), TagOptions{
			Attributes: Attributes{AttrSrc: "/ignored.jpg"},
		})
		require.NoError(t, err)
		assert.Contains(t, string(tag), `src="/img/hero-1024.jpg"`)
		assert.NotContains(t, string(tag), "/ignored.jpg")
	})

	t.Run("tablet_variant scenario", func(t *testing.T) {
		h, err := New(Config{
			Sizes:               map[string]string{"default": "default", "tablet": "tablet_variant"},
			Default:             DefaultSentinel,
			AuthorizedModifiers: []string{},
		})
		require.NoError(t, err)

		tag, err := h.ImageTag(deviceCtx(DeviceTablet), newTestImage(), TagOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(tag), `<img src="/img/hero-tablet.jpg"`)
		assert.Contains(t, string(tag), `data-desktop-src="/img/hero.jpg"`)
		assert.Contains(t, string(tag), `data-tablet-src="/img/hero-tablet.jpg"`)
	})

	t.Run("error propagates", func(t *testing.T) {
		h := newTestHelper(t, func(c *Config) { c.Sizes["mobile"] = "missing" })
		tag, err := h.ImageTag(deviceCtx(DeviceDesktop), newTestImage(), TagOptions{})
		require.Error(t, err)
		assert.Empty(t, tag)
	})
}

func TestHelper_BackgroundImage(t *testing.T) {
	t.Run("style plus alternatives", func(t *testing.T) {
		h := newTestHelper(t, nil)
		attrs, err := h.BackgroundImage(deviceCtx(DeviceTablet), newTestImage(), TagOptions{Class: "banner"})
		require.NoError(t, err)
		assert.Equal(t, Attributes{
			"style":            "background-image: url(/img/hero-1024.jpg)",
			"class":            "banner",
			"data-desktop-src": "/img/hero-1600.jpg",
			"data-tablet-src":  "/img/hero-1024.jpg",
			"data-mobile-src":  "/img/hero-700.jpg",
		}, attrs)
	})

	t.Run("caller style wins", func(t *testing.T) {
		h := newTestHelper(t, nil)
		attrs, err := h.BackgroundImage(deviceCtx(DeviceTablet), newTestImage(), TagOptions{
			Attributes: Attributes{AttrStyle: "color: red"},
		})
		require.NoError(t, err)
		assert.Equal(t, "color: red", attrs[AttrStyle])
	})

	t.Run("lazy load uses placeholder in style", func(t *testing.T) {
		h := newTestHelper(t, func(c *Config) {
			c.LazyLoad = true
			c.LazyLoadDefault = "/blank.gif"
		})
		attrs, err := h.BackgroundImage(deviceCtx(DeviceMobile), newTestImage(), TagOptions{Class: "lazy"})
		require.NoError(t, err)
		assert.Equal(t, BackgroundStyle("/blank.gif"), attrs[AttrStyle])
		assert.Equal(t, "/img/hero-700.jpg", attrs[AttrDataOriginal])
	})
}

func TestHelper_PrimaryURLAndAlternatives(t *testing.T) {
	h := newTestHelper(t, nil)

	url, err := h.PrimaryURL(deviceCtx(DeviceTablet), newTestImage(), TagOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/img/hero-1024.jpg", url)

	attrs, err := h.AlternativeSizes(newTestImage(), TagOptions{})
	require.NoError(t, err)
	assert.Len(t, attrs, 3)

	url, err = h.PrimaryURL(deviceCtx(DeviceTablet), nil, TagOptions{})
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestHelper_FuncMap(t *testing.T) {
	h := newTestHelper(t, nil)

	tmpl := template.Must(template.New("page").Funcs(h.FuncMap(deviceCtx(DeviceMobile))).Parse(
		`{{ responsiveImageTag .Photo "hero" }}|<div {{ responsiveBackgroundImage .Photo }}></div>|{{ responsiveImageTag .Missing }}|<p {{ responsiveAttrs .Extra }}></p>`))

	data := struct {
		Photo   Image
		Missing Image
		Extra   Attributes
	}{
		Photo: newTestImage(),
		Extra: Attributes{"id": "x"},
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, data))
	out := buf.String()

	assert.Contains(t, out, `<img src="/img/hero-700.jpg" class="hero"`)
	assert.Contains(t, out, `style="background-image: url(/img/hero-700.jpg)"`)
	assert.Contains(t, out, `</div>||<p`)
	assert.Contains(t, out, `id="x"></p>`)
}

func TestHelper_Logging(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := Config{Default: "w700", Sizes: map[string]string{"mobile": "missing"}}
	h, err := New(cfg, WithLogger(zap.New(core)))
	require.NoError(t, err)

	url, err := h.PrimaryURL(deviceCtx(DeviceMobile), newTestImage(), TagOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/img/hero-default.jpg", url)

	found := false
	for _, entry := range logs.All() {
		if entry.Message == LogMsgVariantFallback {
			found = true
			assert.Equal(t, "missing", entry.ContextMap()[LogFieldVariant])
		}
	}
	assert.True(t, found, "fallback is logged")
}

func TestHelper_ConcurrentUse(t *testing.T) {
	h := newTestHelper(t, nil)
	img := NewStaticImage("/img/hero.jpg", map[string]string{
		"w1600": "/img/hero-1600.jpg",
		"w1024": "/img/hero-1024.jpg",
		"w700":  "/img/hero-700.jpg",
	})
	want := map[Device]string{
		DeviceDesktop: `src="/img/hero.jpg"`,
		DeviceTablet:  `src="/img/hero-1024.jpg"`,
		DeviceMobile:  `src="/img/hero-700.jpg"`,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 60; i++ {
		d := Devices[i%len(Devices)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag, err := h.ImageTag(deviceCtx(d), img, TagOptions{
				Overrides: Overrides{Sizes: map[string]string{"extra": fmt.Sprint(i)}},
			})
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Contains([]byte(tag), []byte(want[d])) {
				errs <- fmt.Errorf("device %s rendered %s", d, tag)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	_, ok := h.Config().Sizes["extra"]
	assert.False(t, ok)
}

func TestHelper_RejectsUnsafeAttributeNames(t *testing.T) {
	h := newTestHelper(t, nil)
	ctx := deviceCtx(DeviceMobile)
	unsafe := Attributes{"alt": "ok", `x onerror=alert(1) y`: "1"}

	t.Run("image tag", func(t *testing.T) {
		tag, err := h.ImageTag(ctx, newTestImage(), TagOptions{Attributes: unsafe})
		require.Error(t, err)
		assert.Empty(t, tag)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		key, ok := customErr.GetMetadata(MetaKeyAttribute)
		assert.True(t, ok)
		assert.Equal(t, `x onerror=alert(1) y`, key)
	})

	t.Run("background image", func(t *testing.T) {
		attrs, err := h.BackgroundImage(ctx, newTestImage(), TagOptions{Attributes: Attributes{`"><b`: "1"}})
		require.Error(t, err)
		assert.Nil(t, attrs)
	})

	t.Run("template attrs", func(t *testing.T) {
		tmpl := template.Must(template.New("attrs").Funcs(h.FuncMap(ctx)).Parse(`<p {{ responsiveAttrs . }}></p>`))
		var buf bytes.Buffer
		assert.Error(t, tmpl.Execute(&buf, unsafe))
	})
}
