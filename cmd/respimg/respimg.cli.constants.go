package main

import "time"

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameServe    = "serve"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagConfig      = "config"
	FlagImage       = "image"
	FlagName        = "name"
	FlagStoreDriver = "store-driver"
	FlagStoreDSN    = "store-dsn"
	FlagDevice      = "device"
	FlagClass       = "class"
	FlagBackground  = "background"
	FlagOutput      = "output"
	FlagFormat      = "format"
	FlagAddr        = "addr"
	FlagHeader      = "header"
	FlagLogLevel    = "log-level"
	FlagVersionFile = "file"
)

// Flag names - short form
const (
	FlagConfigShort = "c"
	FlagImageShort  = "i"
	FlagNameShort   = "n"
	FlagDeviceShort = "d"
	FlagOutputShort = "o"
	FlagFormatShort = "F"
)

// Environment variables consulted for flag defaults (a .env file is loaded first)
const (
	EnvConfig      = "RESPIMG_CONFIG"
	EnvStoreDriver = "RESPIMG_STORE_DRIVER"
	EnvStoreDSN    = "RESPIMG_STORE_DSN"
	EnvAddr        = "RESPIMG_ADDR"
	EnvLogLevel    = "RESPIMG_LOG_LEVEL"
)

// Flag default values
const (
	FlagDefaultOutput   = "-" // stdout
	FlagDefaultFormat   = "text"
	FlagDefaultDevice   = "desktop"
	FlagDefaultAddr     = ":8080"
	FlagDefaultLogLevel = "info"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Serve constants
const (
	RouteTag            = "GET /tag/{name}"
	RouteBackground     = "GET /background/{name}"
	RouteHealth         = "GET /healthz"
	PathValueName       = "name"
	QueryParamDevice    = "device"
	QueryParamClass     = "class"
	ContentTypeHTML     = "text/html; charset=utf-8"
	ContentTypeJSON     = "application/json"
	HeaderContentType   = "Content-Type"
	HealthBody          = "ok"
	ServeReadTimeout    = 10 * time.Second
	ServeWriteTimeout   = 10 * time.Second
	ServeShutdownPeriod = 5 * time.Second
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand       = "unknown command"
	ErrMsgMissingConfig        = "config file required"
	ErrMsgMissingImage         = "image file or store name required"
	ErrMsgConflictingSource    = "use either --image or --name, not both"
	ErrMsgMissingStoreDriver   = "store driver required with --name"
	ErrMsgInvalidFormat        = "invalid output format"
	ErrMsgInvalidDevice        = "invalid device"
	ErrMsgInvalidLogLevel      = "invalid log level"
	ErrMsgReadFileFailed       = "failed to read file"
	ErrMsgParseImageFailed     = "failed to parse image file"
	ErrMsgLoadConfigFailed     = "failed to load config"
	ErrMsgOpenStoreFailed      = "failed to open attachment store"
	ErrMsgLoadImageFailed      = "failed to load image"
	ErrMsgRenderFailed         = "failed to render image"
	ErrMsgWriteOutputFailed    = "failed to write output"
	ErrMsgJSONMarshalFailed    = "failed to marshal JSON"
	ErrMsgServeFailed          = "server failed"
	ErrMsgWatchFailed          = "failed to watch attachment store"
	ErrMsgAttachmentNotFound   = "attachment not found"
	ErrMsgCreateLoggerFailed   = "failed to create logger"
	ErrMsgInvalidServeOptions  = "invalid serve options"
	ErrMsgInvalidRenderOptions = "invalid render options"
	ErrMsgStdinInUse           = "stdin already used for the image"
	ErrMsgReadVersionFile      = "failed to read versions file"
)

// Log messages
const (
	LogMsgServeStarting  = "preview server starting"
	LogMsgServeStopping  = "preview server stopping"
	LogMsgRequestFailed  = "request failed"
	LogMsgStoreWatching  = "watching attachment store for changes"
	LogMsgStoreOpened    = "attachment store opened"
	LogFieldAddr         = "addr"
	LogFieldDriver       = "driver"
	LogFieldName         = "name"
	LogFieldPath         = "path"
	LogFieldStatus       = "status"
	LogFieldRemoteAddr   = "remote_addr"
	LogFieldHeader       = "header"
	LogFieldShutdownWait = "shutdown_wait"
)

// Help text templates
const (
	HelpMainUsage = `go-respimg - Responsive image tag CLI

Usage:
    respimg <command> [options]

Commands:
    render      Render an <img> tag or background attributes for an image
    validate    Validate a size configuration file
    serve       Run an HTTP preview server
    version     Show version information
    help        Show help for a command

Use "respimg help <command>" for more information about a command.`

	HelpRenderUsage = `Render an <img> tag or background attributes for an image

Usage:
    respimg render [options]

Options:
    -c, --config <file>       Size configuration YAML (default: $RESPIMG_CONFIG or built-in)
    -i, --image <file>        Attachment YAML/JSON file (use "-" for stdin)
    -n, --name <name>         Attachment name to load from a store
    --store-driver <driver>   Store driver: memory, filesystem, postgres, mysql
    --store-dsn <dsn>         Store connection string
    -d, --device <device>     Device: desktop, tablet, mobile (default: desktop)
    --class <classes>         Space-separated class list
    --background              Print background-image attributes instead of a tag
    -F, --format <format>     Output format for --background: text, json (default: text)
    -o, --output <file>       Output file (default: stdout)

Examples:
    respimg render -c sizes.yaml -i hero.yaml -d mobile --class "wide lazy"
    respimg render --store-driver filesystem --store-dsn ./attachments -n hero
    cat hero.yaml | respimg render -i - --background -F json`

	HelpValidateUsage = `Validate a size configuration file

Usage:
    respimg validate [options]

Options:
    -c, --config <file>     Configuration YAML (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    respimg validate -c sizes.yaml
    cat sizes.yaml | respimg validate -c -`

	HelpServeUsage = `Run an HTTP preview server

Usage:
    respimg serve [options]

Options:
    -c, --config <file>       Size configuration YAML
    --store-driver <driver>   Store driver (default: $RESPIMG_STORE_DRIVER or filesystem)
    --store-dsn <dsn>         Store connection string (default: $RESPIMG_STORE_DSN)
    --addr <addr>             Listen address (default: :8080)
    --header <name>           Device header (default: X-Device-Type)
    --log-level <level>       debug, info, warn, error (default: info)

Routes:
    GET /tag/{name}?device=&class=          Rendered <img> tag
    GET /background/{name}?device=&class=   Background attributes as JSON
    GET /healthz                            Liveness probe`

	HelpVersionUsage = `Show version information

Usage:
    respimg version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)
    --file <path>           versions.yaml to read (default: search ., .., ../..)`

	HelpHelpUsage = `Show help for a command

Usage:
    respimg help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    serve       Show help for serve command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate    = "%s %s (tag %s)\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s\nSource: %s"
	VersionUnknown         = "unknown"
	VersionSourceBuildInfo = "build info"
)

// Validation output
const (
	ValidationTextSuccess = "Config is valid"
	ValidationTextFailure = "Config is invalid"
)

// CLI metadata
const (
	CLIName        = "respimg"
	CLIModuleName  = "go-respimg"
	CLIDescription = "Responsive image tag CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
