// Command sitecheck-extract reads a site inspection protocol PDF and prints
// its structured model without starting a server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/a3tai/sitecheck-reader/internal/config"
	"github.com/a3tai/sitecheck-reader/internal/logging"
	"github.com/a3tai/sitecheck-reader/internal/pdf"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"
	formatText = "text"
)

type options struct {
	format   string
	output   string
	logLevel string
	maxSize  int64
}

func main() {
	opts, args, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if err := run(opts, args[0], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, []string, error) {
	var opts options

	fs := pflag.NewFlagSet("sitecheck-extract", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json, xlsx, text")
	fs.StringVarP(&opts.output, "output", "o", "", "Write output to a file instead of stdout")
	fs.StringVar(&opts.logLevel, "loglevel", "warn", "Log level (debug, info, warn, error)")
	fs.Int64Var(&opts.maxSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if fs.NArg() != 1 {
		return opts, nil, fmt.Errorf("exactly one PDF file path required")
	}
	switch opts.format {
	case formatJSON, formatXLSX, formatText:
	default:
		return opts, nil, fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.format == formatXLSX && opts.output == "" {
		return opts, nil, fmt.Errorf("xlsx output requires --output")
	}

	return opts, fs.Args(), nil
}

func run(opts options, path string, stdout io.Writer) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = opts.logLevel
	logger, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	service, err := pdf.NewService(opts.maxSize, filepath.Dir(abs), logger)
	if err != nil {
		return err
	}

	in, err := service.ReadFile(abs)
	if err != nil {
		return err
	}

	var data []byte
	switch opts.format {
	case formatText:
		result, err := service.ExtractText(in)
		if err != nil {
			return err
		}
		data = []byte(result.Text + "\n")
	case formatXLSX:
		protocol, err := service.ExtractProtocol(in)
		if err != nil {
			return err
		}
		if data, err = service.ExportChecklistXLSX(protocol); err != nil {
			return err
		}
	default:
		protocol, err := service.ExtractProtocol(in)
		if err != nil {
			return err
		}
		if data, err = json.MarshalIndent(protocol, "", "  "); err != nil {
			return err
		}
		data = append(data, '\n')
	}

	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(opts.output, data, 0o644)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sitecheck-extract [options] <file.pdf>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -f, --format string       Output format: json (default), xlsx, text")
	fmt.Fprintln(w, "  -o, --output string       Write output to a file instead of stdout")
	fmt.Fprintln(w, "      --loglevel string     Log level (default \"warn\")")
	fmt.Fprintln(w, "      --maxfilesize int     Maximum PDF file size in bytes")
}
