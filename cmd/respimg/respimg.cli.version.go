package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"gopkg.in/yaml.v3"
)

// buildMetadata is what the version command reports, in both formats.
type buildMetadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Tag         string `json:"tag"`
	Description string `json:"description,omitempty"`
	Commit      string `json:"commit"`
	Branch      string `json:"branch"`
	BuildTime   string `json:"build_time"`
	GoVersion   string `json:"go_version"`
	Source      string `json:"source"`
}

// versionsFile mirrors versions.yaml at the repository root.
type versionsFile struct {
	Project struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
		Tag    string `yaml:"tag"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

// versionFilePaths are searched in order when --file is not given.
var versionFilePaths = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

func runVersion(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var format, file string
	fs.StringVar(&format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&file, FlagVersionFile, "", "")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}
	if format != OutputFormatText && format != OutputFormatJSON {
		fmt.Fprintln(stderr, ErrMsgInvalidFormat)
		return ExitCodeUsageError
	}

	paths := versionFilePaths
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadVersionFile, err)
			return ExitCodeInputError
		}
		paths = []string{file}
	}
	meta, err := loadBuildMetadata(paths)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadVersionFile, err)
		return ExitCodeInputError
	}

	if format == OutputFormatJSON {
		out, _ := json.MarshalIndent(meta, "", "  ")
		fmt.Fprintln(stdout, string(out))
		return ExitCodeSuccess
	}
	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		meta.Name, meta.Version, meta.Tag, meta.Commit, meta.Branch, meta.BuildTime, meta.GoVersion, meta.Source)
	if meta.Description != "" {
		fmt.Fprintln(stdout, meta.Description)
	}
	return ExitCodeSuccess
}

// loadBuildMetadata reads the first versions file found in paths. When none
// exists the toolchain's embedded build info is used instead. A file that
// exists but does not parse is an error.
func loadBuildMetadata(paths []string) (*buildMetadata, error) {
	meta := &buildMetadata{
		Name:      CLIModuleName,
		Version:   VersionUnknown,
		Tag:       VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
		Source:    VersionSourceBuildInfo,
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var vf versionsFile
		if err := yaml.Unmarshal(data, &vf); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		meta.Source = path
		setIfPresent(&meta.Name, vf.Project.Name)
		setIfPresent(&meta.Version, vf.Project.Version)
		setIfPresent(&meta.Description, vf.Project.Description)
		setIfPresent(&meta.Tag, vf.Git.Tag)
		setIfPresent(&meta.Commit, vf.Git.Commit)
		setIfPresent(&meta.Branch, vf.Git.Branch)
		setIfPresent(&meta.BuildTime, vf.Build.Time)
		setIfPresent(&meta.GoVersion, vf.Build.GoVersion)
		break
	}

	// Release pipelines leave commit and build time blank in versions.yaml;
	// the toolchain's VCS stamp fills them.
	applyBuildInfo(meta)
	return meta, nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// applyBuildInfo fills fields still unknown from the build info embedded by
// the go toolchain.
func applyBuildInfo(meta *buildMetadata) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" && meta.Version == VersionUnknown {
		meta.Version = v
	}
	for _, setting := range info.Settings {
		switch {
		case setting.Key == "vcs.revision" && meta.Commit == VersionUnknown:
			meta.Commit = setting.Value
		case setting.Key == "vcs.time" && meta.BuildTime == VersionUnknown:
			meta.BuildTime = setting.Value
		}
	}
}
