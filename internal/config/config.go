// Package config loads cmd/fswatchctl's default WatchOptions from an
// optional project file, the way daemon.DefaultConfig supplies defaults
// for the sync engine but sourced from disk instead of hardcoded — the
// core globwatch library itself takes no dependency on this package or on
// viper/toml/yaml, matching spec §6's "options passed by the caller"
// contract.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/snomiao/glob-watch/internal/ui"
)

// FileOptions is the on-disk shape of .fswatchctl.{toml,yaml}, deliberately
// narrower than globwatch.WatchOptions: only the fields a project would
// reasonably want to pin ahead of time.
type FileOptions struct {
	Mode      string   `mapstructure:"mode"`
	Patterns  []string `mapstructure:"patterns"`
	Ignore    []string `mapstructure:"ignore"`
	Dot       bool     `mapstructure:"dot"`
	OnlyFiles bool     `mapstructure:"only_files"`
	LogFile   string   `mapstructure:"log_file"`
}

// Load reads an optional .fswatchctl config file from cwd, understanding
// both TOML and YAML through viper's built-in codecs. A missing file is
// not an error; Load then returns FileOptions with only the defaults set
// (Mode "external", OnlyFiles true).
func Load(cwd string) (FileOptions, error) {
	v := viper.New()
	v.SetConfigName(".fswatchctl")
	v.AddConfigPath(cwd)
	v.SetDefault("mode", "external")
	v.SetDefault("only_files", true)

	var out FileOptions
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			out.Mode = v.GetString("mode")
			out.OnlyFiles = v.GetBool("only_files")
			return out, nil
		}
		return FileOptions{}, fmt.Errorf("config: failed to read config: %w", err)
	}
	if err := v.Unmarshal(&out); err != nil {
		return FileOptions{}, fmt.Errorf("config: failed to decode config: %w", err)
	}
	return out, nil
}

// NewLogger builds a *log.Logger writing to a rotated file when path is
// non-empty (via lumberjack), or to stderr otherwise. Used by
// `fswatchctl watch` for long-running sessions where stderr is impractical.
func NewLogger(path string) *log.Logger {
	if strings.TrimSpace(path) == "" {
		return log.New(logWriter{}, "[fswatchctl] ", log.LstdFlags)
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return log.New(rotator, "[fswatchctl] ", log.LstdFlags)
}

// logWriter defers to ui's dim styling so plain stderr logging still reads
// consistently with the CLI's other output.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	fmt.Fprint(os.Stderr, ui.RenderDim("%s", strings.TrimRight(string(p), "\n"))+"\n")
	return len(p), nil
}
