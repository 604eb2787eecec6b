// Command form-export renders form files into PDF documents without an MCP
// client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/fieldforms/internal/config"
	"github.com/a3tai/fieldforms/internal/forms"
	"github.com/a3tai/fieldforms/internal/pdf"
	"github.com/a3tai/fieldforms/internal/signature"
)

type options struct {
	output       string
	pageSize     string
	company      string
	draft        bool
	timeout      time.Duration
	workers      int
	logLevel     string
	bundle       string
	signFirst    string
	signCustomer string
	maxSignature int
	maxFileSize  int64
	inputs       []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run exports the form files named in args and returns the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck // nothing to do about a failed flush

	if err := export(ctx, opts, stdout, logger); err != nil {
		logger.Error("export failed", zap.Error(err))
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	defaults := config.DefaultConfig()
	opts := &options{}

	flags := pflag.NewFlagSet("form-export", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.output, "output", "o", defaults.OutputDirectory, "Directory the documents are written to")
	flags.StringVar(&opts.pageSize, "pagesize", defaults.PageSize, "Page size (A4, Letter)")
	flags.StringVar(&opts.company, "company", "", "Company name printed in the document header")
	flags.BoolVar(&opts.draft, "draft", false, "Watermark documents with missing signatures as DRAFT")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "Maximum time to render one document")
	flags.IntVar(&opts.workers, "workers", defaults.Workers, "Number of documents rendered concurrently")
	flags.StringVar(&opts.logLevel, "loglevel", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.bundle, "bundle", "", "Also merge the exported documents into this file")
	flags.StringVar(&opts.signFirst, "sign-technician", "", "PNG/JPEG signature of the technician or surveyor")
	flags.StringVar(&opts.signCustomer, "sign-customer", "", "PNG/JPEG signature of the customer")
	flags.IntVar(&opts.maxSignature, "maxsignature", defaults.MaxSignatureSize, "Maximum signature image size in bytes")
	flags.Int64Var(&opts.maxFileSize, "maxfilesize", defaults.MaxFileSize, "Maximum PDF file size in bytes")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: form-export [options] FORM_FILE...\n\n")
		fmt.Fprintf(stderr, "Render work orders, maintenance checklists and site surveys into PDF.\n")
		fmt.Fprintf(stderr, "Form files are JSON or YAML envelopes: {kind: ..., data: {...}}\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	opts.inputs = flags.Args()
	if len(opts.inputs) == 0 {
		flags.Usage()
		return nil, errors.New("at least one form file is required")
	}

	cfg := config.DefaultConfig()
	cfg.OutputDirectory = opts.output
	cfg.PageSize = opts.pageSize
	cfg.Timeout = opts.timeout
	cfg.Workers = opts.workers
	cfg.LogLevel = opts.logLevel
	cfg.MaxSignatureSize = opts.maxSignature
	cfg.MaxFileSize = opts.maxFileSize
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func export(ctx context.Context, opts *options, stdout io.Writer, logger *zap.Logger) error {
	svc, err := pdf.NewService(pdf.Options{
		OutputDirectory:  opts.output,
		MaxFileSize:      opts.maxFileSize,
		MaxSignatureSize: opts.maxSignature,
		PageSize:         opts.pageSize,
		Company:          opts.company,
		Timeout:          opts.timeout,
		Workers:          opts.workers,
		Draft:            opts.draft,
	}, logger)
	if err != nil {
		return err
	}

	signatures, err := loadSignatures(opts)
	if err != nil {
		return err
	}

	reqs := make([]pdf.ExportRequest, 0, len(opts.inputs))
	for _, path := range opts.inputs {
		env, err := readForm(path, signatures)
		if err != nil {
			return err
		}
		reqs = append(reqs, pdf.ExportRequest{Envelope: env})
	}

	var exported []string
	if len(reqs) == 1 {
		result, err := svc.Export(ctx, reqs[0])
		if err != nil {
			return err
		}
		printResult(stdout, result)
		exported = append(exported, result.Path)
	} else {
		batch, err := svc.ExportBatch(ctx, reqs)
		if batch != nil {
			for i, result := range batch.Results {
				if result == nil {
					continue
				}
				fmt.Fprintf(stdout, "%s: ", opts.inputs[i])
				printResult(stdout, result)
				exported = append(exported, result.Path)
			}
		}
		if err != nil {
			return err
		}
		if batch.Failed > 0 {
			for _, e := range append(batch.Errors.Errors, batch.Errors.Warnings...) {
				logger.Error("form failed", zap.Error(e))
			}
			return fmt.Errorf("%d of %d forms failed", batch.Failed, len(reqs))
		}
	}

	if opts.bundle != "" {
		result, err := svc.Bundle(ctx, pdf.BundleRequest{Paths: exported, FileName: opts.bundle})
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, result.String())
	}
	return nil
}

func printResult(w io.Writer, result *pdf.ExportResult) {
	fmt.Fprintf(w, "%s (%d pages, %d bytes)", result.Path, result.Pages, result.Size)
	if result.Draft {
		fmt.Fprint(w, " DRAFT")
	}
	fmt.Fprintln(w)
}

// signatureFiles maps a signer slot to the data URL read from its file
type signatureFiles struct {
	first    string
	customer string
}

func loadSignatures(opts *options) (signatureFiles, error) {
	var sigs signatureFiles
	var err error
	if sigs.first, err = readSignature(opts.signFirst, opts.maxSignature); err != nil {
		return sigs, err
	}
	if sigs.customer, err = readSignature(opts.signCustomer, opts.maxSignature); err != nil {
		return sigs, err
	}
	return sigs, nil
}

func readSignature(path string, maxBytes int) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read signature: %w", err)
	}
	url, err := signature.DataURL(data)
	if err != nil {
		return "", fmt.Errorf("signature %s: %w", path, err)
	}
	if _, err := signature.NewDecoder(maxBytes).Decode(url); err != nil {
		return "", fmt.Errorf("signature %s: %w", path, err)
	}
	return url, nil
}

// readForm decodes a form file and stores the given signatures into it
func readForm(path string, sigs signatureFiles) (*forms.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form: %w", err)
	}
	env, err := forms.Decode(data, forms.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if sigs.first == "" && sigs.customer == "" {
		return env, nil
	}

	state, err := forms.NewState(env.Kind, env.Data)
	if err != nil {
		return nil, err
	}
	first := "technician"
	if env.Kind == forms.KindSurvey {
		first = "surveyor"
	}
	for slot, url := range map[string]string{first: sigs.first, "customer": sigs.customer} {
		if url == "" {
			continue
		}
		if err := state.Set(slot+".image", url); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return state.Envelope(), nil
}
