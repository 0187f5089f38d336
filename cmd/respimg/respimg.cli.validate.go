package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-respimg"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	configPath string
	format     string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid     bool     `json:"valid"`
	Error     string   `json:"error,omitempty"`
	Sizes     int      `json:"sizes,omitempty"`
	Default   string   `json:"default,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingConfig, err)
		return ExitCodeUsageError
	}

	sizes, loadErr := loadConfig(cfg.configPath, stdin)

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(sizes, loadErr, stdout)
	}
	return outputValidationText(loadErr, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateConfig{}

	fs.StringVar(&cfg.configPath, FlagConfig, envDefault(EnvConfig, ""), "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, envDefault(EnvConfig, ""), "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.configPath == "" {
		return nil, errors.New(ErrMsgMissingConfig)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputValidationText(err error, stdout io.Writer) int {
	if err != nil {
		fmt.Fprintf(stdout, FmtErrorWithCause, ValidationTextFailure, err)
		return ExitCodeValidationError
	}
	fmt.Fprintln(stdout, ValidationTextSuccess)
	return ExitCodeSuccess
}

func outputValidationJSON(cfg respimg.Config, err error, stdout io.Writer) int {
	output := validationOutput{Valid: err == nil}
	if err != nil {
		output.Error = err.Error()
	} else {
		output.Sizes = len(cfg.Sizes)
		output.Default = cfg.Default
		output.Modifiers = cfg.AuthorizedModifiers
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if err != nil {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
