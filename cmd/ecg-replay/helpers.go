package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	replay "github.com/tphakala/go-ecg-replay"
)

const (
	exitUsage     = 2
	outputDirPerm = 0o755
)

// errUsage reports a command line that could not be parsed. The flag
// package has already printed the details.
var errUsage = errors.New("usage error")

// options holds the parsed command line.
type options struct {
	dbPath          string
	outDir          string
	format          string
	database        string
	records         []string
	rate            int
	annotator       string
	reference       string
	detector        string
	delay           int
	wavGain         int
	continueOnError bool
	reportPath      string
	verbose         bool
}

// parseFlags parses args into options.
func parseFlags(args []string) (*options, error) {
	return parseFlagsTo(args, os.Stderr)
}

func parseFlagsTo(args []string, output io.Writer) (*options, error) {
	defaults := replay.DefaultConfig()
	opts := &options{}
	var records string

	fs := flag.NewFlagSet("ecg-replay", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.dbPath, "dbpath", defaults.DBPath, "Directory holding the database records")
	fs.StringVar(&opts.outDir, "out", "", "Output directory for annotation files (default: -dbpath)")
	fs.StringVar(&opts.format, "format", defaults.Format, "Record format: wfdb, wav")
	fs.StringVar(&opts.database, "db", defaults.Database,
		"Built-in record set: "+strings.Join(replay.Databases(), ", "))
	fs.StringVar(&records, "records", "", "Comma or space separated record names (overrides -db)")
	fs.IntVar(&opts.rate, "rate", defaults.DetectorRate, "Detector sample rate in Hz")
	fs.StringVar(&opts.annotator, "annotator", defaults.Annotator, "Output annotator name")
	fs.StringVar(&opts.reference, "reference", defaults.Reference, "Reference annotator name")
	fs.StringVar(&opts.detector, "detector", defaults.Detector, "Beat detector: "+replay.DetectorOracle)
	fs.IntVar(&opts.delay, "delay", defaults.Delay, "Oracle reporting delay in detector samples")
	fs.IntVar(&opts.wavGain, "wavgain", 0, "WAV sample units per mV (default 200)")
	fs.BoolVar(&opts.continueOnError, "continue", false, "Continue with the next record after a failure")
	fs.StringVar(&opts.reportPath, "report", "", "Write a JSON run report to this file")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(output, "Usage: %s [options]\n\nOptions:\n", fs.Name())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errUsage
		}
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	opts.records = parseRecords(records)
	return opts, nil
}

// parseRecords splits a record list on commas and white space.
func parseRecords(s string) []string {
	names := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(names) == 0 {
		return nil
	}
	return names
}

// config builds the replay configuration.
func (o *options) config() replay.Config {
	return replay.Config{
		DBPath:          o.dbPath,
		OutDir:          o.outDir,
		Format:          o.format,
		Database:        o.database,
		Records:         o.records,
		DetectorRate:    o.rate,
		Annotator:       o.annotator,
		Reference:       o.reference,
		Detector:        o.detector,
		Delay:           o.delay,
		WAVGain:         o.wavGain,
		ContinueOnError: o.continueOnError,
		Verbose:         o.verbose,
	}
}

// outputDir returns where annotation files will be written.
func outputDir(c replay.Config) string {
	if c.OutDir == "" {
		return c.DBPath
	}
	return c.OutDir
}
