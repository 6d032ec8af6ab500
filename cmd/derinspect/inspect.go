package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dfi/dercert/asn1struct"
	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/dfi/dercert/internal/parsemetrics"
	"github.com/dfi/dercert/oids"
)

// kindOf extracts the der.Error taxonomy name from err, for use as a metric
// label; returns "Unknown" if err is not a *der.Error.
func kindOf(err error) parsemetrics.Kind {
	var derErr *der.Error
	if errors.As(err, &derErr) {
		return parsemetrics.Kind(derErr.Kind.String())
	}
	return parsemetrics.Kind("Unknown")
}

// runInspect parses the configured input as cfg.Format and reports on it:
// a one-line zerolog summary (dumping decoded fields when Verbose), plus a
// re-encoded DER round-trip written to --out if given.
func runInspect(cfg *toolConfig, logger *zerolog.Logger, metrics *parsemetrics.Metrics) error {
	format := cfg.Format
	if f := *clpFormat; f != "" {
		format = f
	}
	if format == "" {
		return fmt.Errorf("no --format given (one of certificate|csr|ocspresponse|attributecertificate)")
	}

	data, err := readInput()
	if err != nil {
		return fmt.Errorf("failed to read input: [%w]", err)
	}

	timer := metrics.ParseTimer(format)
	defer timer()

	var (
		summary map[string]any
		encoded []byte
	)
	switch format {
	case "certificate":
		cert, perr := builder.Parse(data, asn1struct.NewCertificateBuilder)
		if perr != nil {
			metrics.ParseFailure(format, kindOf(perr))
			return fmt.Errorf("failed to parse certificate: [%w]", perr)
		}
		summary = certificateSummary(cert)
		encoded, err = cert.Encode()
	case "csr":
		csr, perr := builder.Parse(data, asn1struct.NewCertificationRequestBuilder)
		if perr != nil {
			metrics.ParseFailure(format, kindOf(perr))
			return fmt.Errorf("failed to parse certification request: [%w]", perr)
		}
		summary = map[string]any{
			"subject": csr.CertificationRequestInfo.Subject,
			"version": csr.CertificationRequestInfo.Version,
		}
		encoded, err = csr.Encode()
	case "ocspresponse":
		resp, perr := builder.Parse(data, asn1struct.NewOCSPResponseBuilder)
		if perr != nil {
			metrics.ParseFailure(format, kindOf(perr))
			return fmt.Errorf("failed to parse OCSP response: [%w]", perr)
		}
		summary = map[string]any{"status": resp.ResponseStatus}
		encoded, err = resp.Encode()
	case "attributecertificate":
		ac, perr := builder.Parse(data, asn1struct.NewAttributeCertificateBuilder)
		if perr != nil {
			metrics.ParseFailure(format, kindOf(perr))
			return fmt.Errorf("failed to parse attribute certificate: [%w]", perr)
		}
		summary = map[string]any{
			"serial":  ac.ACInfo.SerialNumber,
			"version": ac.ACInfo.Version,
		}
		encoded, err = ac.Encode()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to re-encode %s: [%w]", format, err)
	}

	metrics.ParseSuccess(format)
	metrics.EncodeSuccess(format)
	logDecodeSummary(logger, cfg.Log.Verbose, format, summary)

	if clpOut != nil && *clpOut != "" {
		return writeOutput(encoded)
	}
	return nil
}

func certificateSummary(cert asn1struct.Certificate) map[string]any {
	summary := map[string]any{
		"version": cert.TBSCertificate.Version,
		"serial":  cert.TBSCertificate.SerialNumber,
	}
	if sigOIDName, ok := oids.Name(cert.TBSCertificate.Signature.Algorithm); ok {
		summary["signatureAlgorithm"] = sigOIDName
	}
	return summary
}
