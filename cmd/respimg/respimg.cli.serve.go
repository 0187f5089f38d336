package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/itsatony/go-respimg"
	"go.uber.org/zap"
)

// serveConfig holds parsed serve command configuration
type serveConfig struct {
	configPath  string
	storeDriver string
	storeDSN    string
	addr        string
	header      string
	logLevel    string
}

func runServe(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseServeFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidServeOptions, err)
		return ExitCodeUsageError
	}

	logger, err := newLogger(cfg.logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidLogLevel, err)
		return ExitCodeUsageError
	}
	defer func() { _ = logger.Sync() }()

	sizes, err := loadConfig(cfg.configPath, nil)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeValidationError
	}

	helper, err := respimg.New(sizes, respimg.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeValidationError
	}

	store, err := respimg.OpenStore(cfg.storeDriver, cfg.storeDSN)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStoreFailed, err)
		return ExitCodeError
	}
	logger.Info(LogMsgStoreOpened, zap.String(LogFieldDriver, cfg.storeDriver))

	cached := respimg.NewCachedStore(store, respimg.WithStoreLogger(logger))
	defer cached.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if fsStore, ok := store.(*respimg.FilesystemStore); ok {
		if err := fsStore.Watch(ctx, cached.Invalidate); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWatchFailed, err)
			return ExitCodeError
		}
		logger.Info(LogMsgStoreWatching, zap.String(LogFieldPath, fsStore.Root()))
	}

	server := &http.Server{
		Addr:         cfg.addr,
		Handler:      newServeHandler(helper, cached, cfg.header, logger),
		ReadTimeout:  ServeReadTimeout,
		WriteTimeout: ServeWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(LogMsgServeStarting, zap.String(LogFieldAddr, cfg.addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgServeFailed, err)
			return ExitCodeError
		}
	case <-ctx.Done():
		logger.Info(LogMsgServeStopping, zap.Duration(LogFieldShutdownWait, ServeShutdownPeriod))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServeShutdownPeriod)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgServeFailed, err)
			return ExitCodeError
		}
	}

	return ExitCodeSuccess
}

func parseServeFlags(args []string) (*serveConfig, error) {
	fs := flag.NewFlagSet(CmdNameServe, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &serveConfig{}

	fs.StringVar(&cfg.configPath, FlagConfig, envDefault(EnvConfig, ""), "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, envDefault(EnvConfig, ""), "")
	fs.StringVar(&cfg.storeDriver, FlagStoreDriver, envDefault(EnvStoreDriver, respimg.StoreDriverNameFilesystem), "")
	fs.StringVar(&cfg.storeDSN, FlagStoreDSN, envDefault(EnvStoreDSN, ""), "")
	fs.StringVar(&cfg.addr, FlagAddr, envDefault(EnvAddr, FlagDefaultAddr), "")
	fs.StringVar(&cfg.header, FlagHeader, respimg.DefaultDeviceHeader, "")
	fs.StringVar(&cfg.logLevel, FlagLogLevel, envDefault(EnvLogLevel, FlagDefaultLogLevel), "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.storeDriver == "" {
		return nil, errors.New(ErrMsgMissingStoreDriver)
	}

	return cfg, nil
}

// newServeHandler wires the preview routes behind device detection.
func newServeHandler(helper *respimg.Helper, store respimg.AttachmentStore, header string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, HealthBody)
	})

	mux.HandleFunc(RouteTag, func(w http.ResponseWriter, r *http.Request) {
		ctx, img, ok := prepareRequest(w, r, store, logger)
		if !ok {
			return
		}
		tag, err := helper.ImageTag(ctx, img, respimg.TagOptions{Class: r.URL.Query().Get(QueryParamClass)})
		if err != nil {
			writeError(w, r, logger, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set(HeaderContentType, ContentTypeHTML)
		_, _ = io.WriteString(w, string(tag))
	})

	mux.HandleFunc(RouteBackground, func(w http.ResponseWriter, r *http.Request) {
		ctx, img, ok := prepareRequest(w, r, store, logger)
		if !ok {
			return
		}
		attrs, err := helper.BackgroundImage(ctx, img, respimg.TagOptions{Class: r.URL.Query().Get(QueryParamClass)})
		if err != nil {
			writeError(w, r, logger, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		_ = json.NewEncoder(w).Encode(attrs)
	})

	detector := respimg.HeaderDetector{Header: header}
	return respimg.DeviceMiddleware(detector, logger)(mux)
}

// prepareRequest applies the device query override and loads the attachment.
// It writes the error response itself and reports false on failure.
func prepareRequest(w http.ResponseWriter, r *http.Request, store respimg.AttachmentStore, logger *zap.Logger) (context.Context, *respimg.Attachment, bool) {
	ctx := r.Context()

	if q := r.URL.Query().Get(QueryParamDevice); q != "" {
		device, err := respimg.ParseDevice(q)
		if err != nil {
			writeError(w, r, logger, http.StatusBadRequest, err)
			return nil, nil, false
		}
		ctx = respimg.WithDevice(ctx, device)
	}

	img, err := store.Get(ctx, r.PathValue(PathValueName))
	if err != nil {
		status := http.StatusInternalServerError
		if respimg.IsAttachmentNotFound(err) {
			status = http.StatusNotFound
		}
		writeError(w, r, logger, status, err)
		return nil, nil, false
	}

	return ctx, img, true
}

func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, err error) {
	logger.Warn(LogMsgRequestFailed,
		zap.String(LogFieldPath, r.URL.Path),
		zap.Int(LogFieldStatus, status),
		zap.String(LogFieldRemoteAddr, r.RemoteAddr),
		zap.Error(err),
	)
	http.Error(w, err.Error(), status)
}
