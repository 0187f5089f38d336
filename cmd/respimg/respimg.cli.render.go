package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-respimg"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	configPath  string
	imagePath   string
	name        string
	storeDriver string
	storeDSN    string
	device      string
	class       string
	background  bool
	format      string
	outputPath  string
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidRenderOptions, err)
		return ExitCodeUsageError
	}

	device, err := respimg.ParseDevice(cfg.device)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidDevice, err)
		return ExitCodeUsageError
	}

	// stdin can feed either the config or the image, not both
	configStdin := stdin
	if cfg.imagePath == InputSourceStdin {
		configStdin = nil
	}
	sizes, err := loadConfig(cfg.configPath, configStdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeValidationError
	}

	helper, err := respimg.New(sizes)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeValidationError
	}

	ctx := respimg.WithDevice(context.Background(), device)

	img, code := loadRenderImage(ctx, cfg, stdin, stderr)
	if code != ExitCodeSuccess {
		return code
	}

	opts := respimg.TagOptions{Class: cfg.class}

	var out []byte
	if cfg.background {
		attrs, err := helper.BackgroundImage(ctx, img, opts)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
			return ExitCodeError
		}
		out, err = formatAttributes(attrs, cfg.format)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
			return ExitCodeError
		}
	} else {
		tag, err := helper.ImageTag(ctx, img, opts)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
			return ExitCodeError
		}
		out = []byte(string(tag) + FmtNewline)
	}

	if err := writeOutput(cfg.outputPath, out, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

// loadRenderImage reads the attachment from a file or a store.
func loadRenderImage(ctx context.Context, cfg *renderConfig, stdin io.Reader, stderr io.Writer) (*respimg.Attachment, int) {
	if cfg.imagePath != "" {
		data, err := readInput(cfg.imagePath, stdin)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return nil, ExitCodeInputError
		}
		img, err := parseAttachment(data)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParseImageFailed, err)
			return nil, ExitCodeInputError
		}
		return img, ExitCodeSuccess
	}

	img, err := loadFromStore(ctx, cfg.storeDriver, cfg.storeDSN, cfg.name)
	if err != nil {
		if respimg.IsAttachmentNotFound(err) {
			fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgAttachmentNotFound, cfg.name)
			return nil, ExitCodeInputError
		}
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadImageFailed, err)
		return nil, ExitCodeError
	}
	return img, ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.configPath, FlagConfig, envDefault(EnvConfig, ""), "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, envDefault(EnvConfig, ""), "")
	fs.StringVar(&cfg.imagePath, FlagImage, "", "")
	fs.StringVar(&cfg.imagePath, FlagImageShort, "", "")
	fs.StringVar(&cfg.name, FlagName, "", "")
	fs.StringVar(&cfg.name, FlagNameShort, "", "")
	fs.StringVar(&cfg.storeDriver, FlagStoreDriver, envDefault(EnvStoreDriver, ""), "")
	fs.StringVar(&cfg.storeDSN, FlagStoreDSN, envDefault(EnvStoreDSN, ""), "")
	fs.StringVar(&cfg.device, FlagDevice, FlagDefaultDevice, "")
	fs.StringVar(&cfg.device, FlagDeviceShort, FlagDefaultDevice, "")
	fs.StringVar(&cfg.class, FlagClass, "", "")
	fs.BoolVar(&cfg.background, FlagBackground, false, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validation
	if cfg.imagePath == "" && cfg.name == "" {
		return nil, errors.New(ErrMsgMissingImage)
	}
	if cfg.imagePath != "" && cfg.name != "" {
		return nil, errors.New(ErrMsgConflictingSource)
	}
	if cfg.name != "" && cfg.storeDriver == "" {
		return nil, errors.New(ErrMsgMissingStoreDriver)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// formatAttributes prints attributes as an attribute string or a JSON object.
func formatAttributes(attrs respimg.Attributes, format string) ([]byte, error) {
	if format == OutputFormatJSON {
		data, err := json.MarshalIndent(attrs, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return []byte(strings.TrimSpace(attrs.String()) + FmtNewline), nil
}
