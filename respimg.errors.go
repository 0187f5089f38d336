package respimg

import (
	"errors"

	"github.com/itsatony/go-cuserr"
)

// Error message constants
const (
	// Variant errors
	ErrMsgUnknownVariant = "unknown image variant"

	// Config errors
	ErrMsgConfigRead          = "failed to read config file"
	ErrMsgConfigParse         = "failed to parse config"
	ErrMsgConfigInvalid       = "invalid config"
	ErrMsgEmptyDefault        = "default variant cannot be empty"
	ErrMsgEmptySizeKey        = "sizes key cannot be empty"
	ErrMsgEmptyModifier       = "authorized modifier cannot be empty"
	ErrMsgModifierWhitespace  = "authorized modifier cannot contain whitespace"
	ErrMsgQualityWhitespace   = "quality cannot contain whitespace"
	ErrMsgUnsupportedFileType = "unsupported config file type"
	ErrMsgConfigMerge         = "failed to merge config overrides"

	// Device errors
	ErrMsgInvalidDevice = "invalid device type"

	// Render errors
	ErrMsgRenderFailed         = "failed to render image tag"
	ErrMsgInvalidAttributeName = "invalid attribute name"

	// Store errors
	ErrMsgStoreClosed             = "attachment store is closed"
	ErrMsgAttachmentNotFound      = "attachment not found"
	ErrMsgInvalidAttachmentName   = "invalid attachment name"
	ErrMsgEmptyOriginalURL        = "attachment original url cannot be empty"
	ErrMsgStoreDriverNotFound     = "attachment store driver not found"
	ErrMsgNilStoreDriver          = "attachment store driver cannot be nil"
	ErrMsgDriverAlreadyRegistered = "attachment store driver already registered"
	ErrMsgInvalidStoreRoot        = "filesystem store root cannot be empty"
	ErrMsgCreateStoreDir          = "failed to create store directory"
	ErrMsgReadStoreDir            = "failed to read store directory"
	ErrMsgReadManifest            = "failed to read attachment manifest"
	ErrMsgWriteManifest           = "failed to write attachment manifest"
	ErrMsgDeleteManifest          = "failed to delete attachment manifest"
	ErrMsgWatchFailed             = "failed to watch store directory"
	ErrMsgSQLEmptyDSN             = "SQL connection string is empty"
	ErrMsgSQLUnsupportedDialect   = "unsupported SQL dialect"
	ErrMsgSQLConnectionFailed     = "failed to connect to SQL database"
	ErrMsgSQLQueryFailed          = "SQL query failed"
	ErrMsgSQLMarshalFailed        = "failed to marshal attachment data"
	ErrMsgSQLUnmarshalFailed      = "failed to unmarshal attachment data"
	ErrMsgSQLMigrationFailed      = "SQL migration failed"
)

// Error code constants for categorization
const (
	ErrCodeVariant  = "RESPIMG_VARIANT"
	ErrCodeConfig   = "RESPIMG_CONFIG"
	ErrCodeDevice   = "RESPIMG_DEVICE"
	ErrCodeRender   = "RESPIMG_RENDER"
	ErrCodeStore    = "RESPIMG_STORE"
	ErrCodeNotFound = "RESPIMG_NOT_FOUND"
)

// ErrUnknownVariant is reported by Image implementations when a variant
// identifier is not registered for the image.
var ErrUnknownVariant = errors.New(ErrMsgUnknownVariant)

// NewUnknownVariantError creates an error for an unregistered variant identifier.
// The returned error matches ErrUnknownVariant with errors.Is.
func NewUnknownVariantError(variant string) error {
	return cuserr.WrapStdError(ErrUnknownVariant, ErrCodeVariant, ErrMsgUnknownVariant).
		WithMetadata(MetaKeyVariant, variant)
}

// IsUnknownVariant reports whether err signals an unregistered variant.
func IsUnknownVariant(err error) bool {
	return errors.Is(err, ErrUnknownVariant)
}

// NewConfigError creates a config validation error for a specific field
func NewConfigError(msg string, field string, value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyValue, value)
}

// NewConfigFileError wraps a failure to read or decode a config file
func NewConfigFileError(msg string, path string, cause error) error {
	if cause == nil {
		return cuserr.NewValidationError(ErrCodeConfig, msg).
			WithMetadata(MetaKeyPath, path)
	}
	return cuserr.WrapStdError(cause, ErrCodeConfig, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewConfigMergeError wraps a failure to apply per-call overrides to a field
func NewConfigMergeError(field string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgConfigMerge).
		WithMetadata(MetaKeyField, field)
}

// NewInvalidDeviceError creates an error for a device name outside desktop/tablet/mobile
func NewInvalidDeviceError(value string) error {
	return cuserr.NewValidationError(ErrCodeDevice, ErrMsgInvalidDevice).
		WithMetadata(MetaKeyDevice, value)
}

// NewRenderError wraps a markup rendering failure
func NewRenderError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgRenderFailed)
}

// NewInvalidAttributeError creates an error for an attribute name that cannot
// be written into a start tag.
func NewInvalidAttributeError(key string) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgInvalidAttributeName).
		WithMetadata(MetaKeyAttribute, key)
}

// ErrAttachmentNotFound is matched by every error returned for a missing attachment.
var ErrAttachmentNotFound = errors.New(ErrMsgAttachmentNotFound)

// NewAttachmentNotFoundError creates a not-found error for a stored attachment
func NewAttachmentNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrAttachmentNotFound, ErrCodeNotFound, ErrMsgAttachmentNotFound).
		WithMetadata(MetaKeyAttachment, name)
}

// IsAttachmentNotFound reports whether err is an attachment not-found error.
func IsAttachmentNotFound(err error) bool {
	return errors.Is(err, ErrAttachmentNotFound)
}

// NewInvalidAttachmentError creates a validation error for a malformed attachment.
func NewInvalidAttachmentError(msg string, name string) error {
	return cuserr.NewValidationError(ErrCodeStore, msg).
		WithMetadata(MetaKeyAttachment, name)
}

// NewStoreClosedError creates an error for operations on a closed store.
func NewStoreClosedError() error {
	return &StoreError{Message: ErrMsgStoreClosed}
}

// NewStoreDriverNotFoundError creates an error for an unregistered driver.
func NewStoreDriverNotFoundError(name string) error {
	return &StoreError{
		Message: ErrMsgStoreDriverNotFound,
		Name:    name,
	}
}

// StoreError represents an attachment store failure.
type StoreError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}
