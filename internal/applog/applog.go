// Package applog wires github.com/rs/zerolog the way derinspect's operators
// expect: optional console output, optional file output, a Verbose switch
// for dumping decoded field contents, and a close function the caller must
// invoke once logging is no longer needed.
package applog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
}

// Config holds logging parameters, loaded from the derinspect YAML config
// file and overridable from the command line.
type Config struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Console  bool   `json:"console" yaml:"console"`
	FileName string `json:"filename" yaml:"filename"`
	Verbose  bool   `json:"verbose" yaml:"verbose"`
}

// SetDefaults fills in any fields left unset.
func (cfg *Config) SetDefaults() {
	if cfg == nil {
		return
	}
}

// CommandLineValues carries the current value of each logging flag,
// independent of which flag-parsing package the caller uses.
type CommandLineValues struct {
	Enabled  bool
	Console  bool
	Verbose  bool
	FileName string
}

// UpdateCommandLine overrides cfg's fields from vals, for each flag name
// present in changed - the set of flags the caller actually passed on the
// command line, as opposed to left at their zero value.
func (cfg *Config) UpdateCommandLine(changed map[string]bool, vals CommandLineValues) {
	if cfg == nil {
		return
	}
	if changed["log.enabled"] {
		cfg.Enabled = vals.Enabled
	}
	if changed["log.console"] {
		cfg.Console = vals.Console
	}
	if changed["log.verbose"] {
		cfg.Verbose = vals.Verbose
	}
	if changed["log.filename"] {
		cfg.FileName = vals.FileName
	}
}

// Validate checks cfg is internally consistent, disabling logging if no
// sink was actually configured.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("nil logger config object")
	}
	if !cfg.Enabled {
		return nil
	}
	if !cfg.Console && cfg.FileName == "" {
		cfg.Enabled = false
	}
	return nil
}

// New builds a logger from cfg. The returned close function must be called
// once the logger is no longer needed, to release any opened log file.
func New(cfg *Config) (*zerolog.Logger, func(), error) {
	closeFunc := func() {}
	if cfg == nil {
		return nil, closeFunc, errors.New("nil logger config object")
	}

	out := zerolog.Nop()
	if cfg.Enabled {
		var writers []io.Writer
		if cfg.Console {
			writers = append(writers, os.Stdout)
		}
		if cfg.FileName != "" {
			logFile, err := os.OpenFile(filepath.Clean(cfg.FileName), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
			if err != nil {
				return nil, closeFunc, fmt.Errorf("failed to open log file: [%w]", err)
			}
			closeFunc = func() {
				_ = logFile.Close() //nolint:errcheck
			}
			writers = append(writers, zerolog.SyncWriter(logFile))
		}
		if len(writers) > 0 {
			out = zerolog.New(io.MultiWriter(writers...))
		}
	}

	out = out.With().Timestamp().Logger()
	return &out, closeFunc, nil
}
