package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/itsatony/go-respimg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// envDefault returns the environment value for key, or fallback.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadConfig loads a size configuration. An empty path yields the built-in
// default; "-" reads YAML from stdin.
func loadConfig(path string, stdin io.Reader) (respimg.Config, error) {
	switch path {
	case "":
		return respimg.DefaultConfig(), nil
	case InputSourceStdin:
		if stdin == nil {
			return respimg.Config{}, errors.New(ErrMsgStdinInUse)
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return respimg.Config{}, err
		}
		return respimg.ParseConfig(data)
	default:
		return respimg.LoadConfig(path)
	}
}

// parseAttachment decodes an attachment from YAML or JSON.
func parseAttachment(data []byte) (*respimg.Attachment, error) {
	var a respimg.Attachment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	if a.Original == "" {
		return nil, errors.New(respimg.ErrMsgEmptyOriginalURL)
	}
	return &a, nil
}

// loadFromStore opens the named store driver and fetches one attachment.
func loadFromStore(ctx context.Context, driver, dsn, name string) (*respimg.Attachment, error) {
	store, err := respimg.OpenStore(driver, dsn)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Get(ctx, name)
}

// newLogger builds a console logger writing to w at the given level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}
