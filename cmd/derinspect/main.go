// derinspect parses a DER-encoded (or PEM-wrapped) ASN.1 structure, logs a
// summary of its decoded fields, and writes the structure re-encoded to DER
// when --out is given; --dump-oids dumps the static OID registry instead.
package main

import (
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/dfi/dercert/internal/applog"
	"github.com/dfi/dercert/internal/parsemetrics"
)

var (
	AppVersion     string
	BuildTimeStamp string
)

var (
	clpConfigPath = pflag.String("config", "", "path to config file in YAML format")
	clpShowHelp   = pflag.Bool("help", false, "show help and exit")

	clpIn       = pflag.String("in", "", "path to the input file (defaults to stdin)")
	clpOut      = pflag.String("out", "", "path to the output file (defaults to stdout)")
	clpFormat   = pflag.String("format", "", "structure to parse: certificate|csr|ocspresponse|attributecertificate")
	clpDumpOIDs = pflag.Bool("dump-oids", false, "dump the static OID registry as YAML and exit")

	clpLogEnabled  = pflag.Bool("log.enabled", false, "enable logging")
	clpLogConsole  = pflag.Bool("log.console", false, "log to console")
	clpLogFileName = pflag.String("log.filename", "", "log to the named file")
	clpLogVerbose  = pflag.Bool("log.verbose", false, "log decoded field contents")

	clpMetricsEnabled = pflag.Bool("metrics.enabled", false, "expose Prometheus metrics over HTTP")
	clpMetricsAddress = pflag.String("metrics.address", "", "serve metrics on [host:port]")
)

func usage() {
	fmt.Fprintf(os.Stderr, `derinspect parses or re-encodes an ASN.1 DER structure.

Usage:
  derinspect --format=<name> [--in=file] [--out=file]
  derinspect --dump-oids

Command line flags:
`)
	pflag.PrintDefaults()
}

func main() {
	exitCode := 0
	defer os.Exit(exitCode)

	pflag.CommandLine.Usage = usage
	pflag.Parse()
	if *clpShowHelp {
		usage()
		return
	}

	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
		return
	}

	logger, loggerClose, err := applog.New(&cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 2
		return
	}
	defer loggerClose()
	logger.Log().Msg("start")
	startupTime := time.Now()
	defer func() {
		logger.Log().Dur("upTime", time.Since(startupTime)).Int("exitCode", exitCode).Msg("stop")
	}()

	var metrics *parsemetrics.Metrics
	var metricsStop func(time.Duration)
	if cfg.Metrics.Enabled {
		metrics = parsemetrics.New(prometheus.NewRegistry(), AppVersion, BuildTimeStamp)
		stopFunc, failureCh := parsemetrics.ListenAndServe(cfg.Metrics.Address, metrics)
		metricsStop = stopFunc
		defer metricsStop(time.Second)
		go func() {
			if failErr := <-failureCh; failErr != nil {
				logger.Log().Err(failErr).Msg("metrics server failed")
			}
		}()
	}

	if *clpDumpOIDs {
		if err := runDumpOIDs(); err != nil {
			logger.Log().Err(err).Msg("dump-oids failed")
			fmt.Fprintln(os.Stderr, err.Error())
			exitCode = 3
		}
		return
	}

	if err := runInspect(cfg, logger, metrics); err != nil {
		logger.Log().Err(err).Msg("inspect failed")
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 4
		return
	}
}

// readInput reads the input file (or stdin, if --in is unset) and returns
// its DER bytes, unwrapping a PEM envelope first if one is present.
func readInput() ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if clpIn == nil || *clpIn == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(*clpIn)
	}
	if err != nil {
		return nil, err
	}

	if block, _ := pem.Decode(raw); block != nil {
		return block.Bytes, nil
	}
	return raw, nil
}

func writeOutput(data []byte) error {
	if clpOut == nil || *clpOut == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(*clpOut, data, 0o600)
}

func runDumpOIDs() error {
	out, err := dumpOIDs()
	if err != nil {
		return err
	}
	return writeOutput(out)
}

func logDecodeSummary(logger *zerolog.Logger, verbose bool, typeName string, summary map[string]any) {
	ev := logger.Log().Str("type", typeName)
	if verbose {
		for k, v := range summary {
			ev = ev.Interface(k, v)
		}
	}
	ev.Msg("decoded")
}
