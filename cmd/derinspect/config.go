package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/dfi/dercert/internal/applog"
)

// metricsConfig carries the parameters for derinspect's optional
// Prometheus-over-HTTP exposure, laid out the way the monitor daemon's own
// metricsConfig is.
type metricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Address string `json:"address" yaml:"address"`
}

func (cfg *metricsConfig) SetDefaults() {
	if cfg == nil {
		return
	}
}

func (cfg *metricsConfig) UpdateCommandLine(changed map[string]bool) {
	if cfg == nil {
		return
	}
	if changed["metrics.enabled"] {
		cfg.Enabled = *clpMetricsEnabled
	}
	if changed["metrics.address"] {
		cfg.Address = *clpMetricsAddress
	}
}

func (cfg *metricsConfig) Validate() error {
	if cfg == nil {
		return errors.New("nil metrics config object")
	}
	if !cfg.Enabled {
		return nil
	}
	if cfg.Address == "" {
		cfg.Enabled = false
	}
	return nil
}

// toolConfig is the top-level derinspect config file shape.
type toolConfig struct {
	Log     applog.Config `json:"log" yaml:"log"`
	Metrics metricsConfig `json:"metrics" yaml:"metrics"`

	// Format names the asn1struct type to parse input bytes as, when not
	// given on the command line (one of "certificate", "csr",
	// "ocspresponse", "attributecertificate").
	Format string `json:"format" yaml:"format"`
}

// buildConfig reads the optional YAML config file, applies defaults, then
// layers command-line flags over it - flags take priority.
func buildConfig() (*toolConfig, error) {
	var out toolConfig

	if clpConfigPath != nil && *clpConfigPath != "" {
		fn := filepath.Clean(*clpConfigPath)
		encoded, err := os.ReadFile(fn)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: [%s], [%w]", fn, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(encoded))
		dec.KnownFields(true)
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to parse config file: [%s], [%w]", fn, err)
		}
	}

	out.Log.SetDefaults()
	out.Metrics.SetDefaults()

	changed := make(map[string]bool)
	pflag.CommandLine.Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})

	out.Log.UpdateCommandLine(changed, applog.CommandLineValues{
		Enabled:  *clpLogEnabled,
		Console:  *clpLogConsole,
		Verbose:  *clpLogVerbose,
		FileName: *clpLogFileName,
	})
	out.Metrics.UpdateCommandLine(changed)

	if clpFormat != nil && *clpFormat != "" {
		out.Format = *clpFormat
	}

	if err := out.Log.Validate(); err != nil {
		return nil, err
	}
	if err := out.Metrics.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}
