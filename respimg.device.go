package respimg

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Device is the device class a request is rendered for.
type Device string

const (
	DeviceDesktop Device = DeviceNameDesktop
	DeviceTablet  Device = DeviceNameTablet
	DeviceMobile  Device = DeviceNameMobile
)

// Devices lists the supported device classes in attribute order.
var Devices = []Device{DeviceDesktop, DeviceTablet, DeviceMobile}

// String returns the device name.
func (d Device) String() string {
	return string(d)
}

// IsValid reports whether d is one of desktop, tablet or mobile.
func (d Device) IsValid() bool {
	switch d {
	case DeviceDesktop, DeviceTablet, DeviceMobile:
		return true
	default:
		return false
	}
}

// ParseDevice parses a device name case-insensitively.
func ParseDevice(s string) (Device, error) {
	d := Device(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", NewInvalidDeviceError(s)
	}
	return d, nil
}

type deviceContextKey struct{}

// WithDevice returns a copy of ctx carrying the request's device class.
func WithDevice(ctx context.Context, d Device) context.Context {
	return context.WithValue(ctx, deviceContextKey{}, d)
}

// DeviceFromContext returns the device class stored by WithDevice.
// The second return value is false when no device was stored.
func DeviceFromContext(ctx context.Context) (Device, bool) {
	if ctx == nil {
		return "", false
	}
	d, ok := ctx.Value(deviceContextKey{}).(Device)
	return d, ok
}

// DeviceDetector supplies the device class of an incoming request.
// Detection heuristics live outside this package; implementations usually
// read a signal computed upstream.
type DeviceDetector interface {
	Detect(r *http.Request) Device
}

// DetectorFunc adapts a function to the DeviceDetector interface.
type DetectorFunc func(r *http.Request) Device

// Detect calls f(r).
func (f DetectorFunc) Detect(r *http.Request) Device {
	return f(r)
}

// HeaderDetector reads the device class from a request header, typically
// set by a CDN or a detection proxy in front of the application.
type HeaderDetector struct {
	// Header is the header name. Default: DefaultDeviceHeader.
	Header string

	// Fallback is returned when the header is missing or holds an unknown value.
	// The zero value leaves the device unset.
	Fallback Device
}

// Detect implements DeviceDetector.
func (h HeaderDetector) Detect(r *http.Request) Device {
	header := h.Header
	if header == "" {
		header = DefaultDeviceHeader
	}
	d, err := ParseDevice(r.Header.Get(header))
	if err != nil {
		return h.Fallback
	}
	return d
}

// DeviceMiddleware stores the detector's result in each request context so
// helpers can read it with DeviceFromContext. An empty detection result
// leaves the context untouched.
func DeviceMiddleware(detector DeviceDetector, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := detector.Detect(r)
			if d == "" {
				next.ServeHTTP(w, r)
				return
			}
			logger.Debug(LogMsgDeviceDetected, zap.String(LogFieldDevice, d.String()))
			next.ServeHTTP(w, r.WithContext(WithDevice(r.Context(), d)))
		})
	}
}
