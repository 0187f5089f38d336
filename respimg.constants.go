package respimg

import "time"

// Device names as reported by the device-detection collaborator
const (
	DeviceNameDesktop = "desktop"
	DeviceNameTablet  = "tablet"
	DeviceNameMobile  = "mobile"
)

// DefaultSentinel is the variant value meaning "the unmodified image URL".
const DefaultSentinel = "default"

// Identifier composition
const (
	IdentifierSeparator = "-"
	ClassSeparator      = " "
)

// HTML attribute and element names
const (
	ElementImg          = "img"
	AttrSrc             = "src"
	AttrClass           = "class"
	AttrStyle           = "style"
	AttrDataOriginal    = "data-original"
	AttrDataPrefix      = "data-"
	AttrDataSuffix      = "-src"
	LazyClass           = "lazy"
	BackgroundStyleOpen = "background-image: url("
	BackgroundStyleEnd  = ")"
)

// html/template function names exposed by Helper.FuncMap
const (
	FuncNameImageTag        = "responsiveImageTag"
	FuncNameBackgroundImage = "responsiveBackgroundImage"
	FuncNameAttrs           = "responsiveAttrs"
)

// HTTP plumbing
const (
	DefaultDeviceHeader = "X-Device-Type"
)

// Config file constants
const (
	ConfigFileExtYAML = ".yaml"
	ConfigFileExtYML  = ".yml"
)

// Store ID prefix
const (
	AttachmentIDPrefix = "att_"
)

// Store driver names
const (
	StoreDriverNameMemory     = "memory"
	StoreDriverNameFilesystem = "filesystem"
	StoreDriverNamePostgres   = "postgres"
	StoreDriverNameMySQL      = "mysql"
)

// Filesystem store constants
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemManifestSuffix  = ".yaml"
)

// SQL store constants
const (
	SQLTablePrefix            = "respimg_"
	SQLDefaultMaxOpenConns    = 25
	SQLDefaultMaxIdleConns    = 5
	SQLDefaultConnMaxLifetime = 5 * time.Minute
	SQLDefaultConnMaxIdleTime = 5 * time.Minute
	SQLDefaultQueryTimeout    = 30 * time.Second
)

// Cache constants
const (
	CacheDefaultTTL             = 5 * time.Minute
	CacheDefaultNegativeTTL     = 30 * time.Second
	CacheDefaultCleanupInterval = 10 * time.Minute
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyVariant    = "variant"
	MetaKeyDevice     = "device"
	MetaKeyIdentifier = "identifier"
	MetaKeyField      = "field"
	MetaKeyValue      = "value"
	MetaKeyPath       = "path"
	MetaKeyReason     = "reason"
	MetaKeyAttachment = "attachment"
	MetaKeyDriver     = "driver"
	MetaKeyAttribute  = "attribute"
)

// Log messages
const (
	LogMsgHelperCreated      = "responsive image helper created"
	LogMsgSetup              = "assembling responsive image attributes"
	LogMsgNilImage           = "nil image, nothing to render"
	LogMsgPrimaryResolved    = "primary url resolved"
	LogMsgVariantFallback    = "variant not found, falling back to default"
	LogMsgUnknownDevice      = "device type not recognised, primary url left empty"
	LogMsgLazyLoadApplied    = "lazy load placeholder applied"
	LogMsgAlternativesFailed = "alternative sizes could not be resolved"
	LogMsgDeviceDetected     = "device type detected"
	LogMsgStoreWatchError    = "attachment manifest watcher error"
	LogMsgStoreWatchEvent    = "attachment manifest changed"
	LogMsgCacheInvalidated   = "attachment cache entry invalidated"
	LogMsgOverridesFailed    = "call overrides could not be applied"
)

// Log field names
const (
	LogFieldDevice   = "device"
	LogFieldVariant  = "variant"
	LogFieldURL      = "url"
	LogFieldClass    = "class"
	LogFieldModifier = "modifier"
	LogFieldName     = "name"
	LogFieldError    = "error"
)
