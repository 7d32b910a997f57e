package replay

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/tphakala/go-ecg-replay/internal/annot"
	"github.com/tphakala/go-ecg-replay/internal/detect"
	"github.com/tphakala/go-ecg-replay/internal/pipeline"
	"github.com/tphakala/go-ecg-replay/internal/rateconv"
	"github.com/tphakala/go-ecg-replay/internal/record"
	"github.com/tphakala/go-ecg-replay/internal/report"
	"github.com/tphakala/go-ecg-replay/internal/wavrec"
	"github.com/tphakala/go-ecg-replay/internal/wfdb"
)

// Common errors returned by the replay package.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid replay configuration")

	// ErrSourceOpen indicates a record or its reference data could not be
	// opened.
	ErrSourceOpen = errors.New("failed to open record")

	// ErrSinkOpen indicates an annotation output could not be created.
	ErrSinkOpen = errors.New("failed to create annotation output")
)

// Config holds replay configuration.
type Config struct {
	// DBPath is the directory holding the database records.
	DBPath string

	// OutDir receives <record>.<Annotator> files. Empty means DBPath.
	OutDir string

	// Format selects the record reader: FormatWFDB or FormatWAV.
	Format string

	// Database selects a built-in record set when Records is empty.
	Database string

	// Records lists the record names to replay, in order.
	Records []string

	// DetectorRate is the sample rate the detector runs at, in Hz.
	DetectorRate int

	// Annotator names the output annotation files.
	Annotator string

	// Reference names the reference annotation files read by the oracle.
	Reference string

	// Detector selects the built-in detector.
	Detector string

	// Delay is the oracle's reporting delay in detector samples.
	Delay int

	// WAVGain is the number of WAV sample units per mV. Zero selects the
	// WFDB default.
	WAVGain int

	// ContinueOnError logs a failed record and moves on instead of
	// stopping the run.
	ContinueOnError bool

	// Verbose enables per-record detail and progress logging.
	Verbose bool
}

// DefaultConfig returns a configuration for the MIT-BIH database in the
// current directory.
func DefaultConfig() Config {
	return Config{
		DBPath:       ".",
		Format:       FormatWFDB,
		Database:     defaultDatabase,
		DetectorRate: defaultDetectorRate,
		Annotator:    defaultAnnotator,
		Reference:    defaultReference,
		Detector:     defaultDetector,
		Delay:        defaultOracleDelay,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DetectorRate <= 0 {
		return fmt.Errorf("%w: detector rate must be positive", ErrInvalidConfig)
	}
	if err := validAnnotator(c.Annotator); err != nil {
		return fmt.Errorf("%w: annotator: %w", ErrInvalidConfig, err)
	}
	switch c.Format {
	case FormatWFDB, FormatWAV:
	default:
		return fmt.Errorf("%w: unknown record format %q", ErrInvalidConfig, c.Format)
	}
	if len(c.Records) == 0 {
		if _, err := RecordSet(c.Database); err != nil {
			return err
		}
	}
	for _, name := range c.Records {
		if name == "" {
			return fmt.Errorf("%w: empty record name", ErrInvalidConfig)
		}
	}
	return nil
}

// validateDetector checks the settings of the built-in detector.
func (c *Config) validateDetector() error {
	switch c.Detector {
	case DetectorOracle:
		if err := validAnnotator(c.Reference); err != nil {
			return fmt.Errorf("%w: reference annotator: %w", ErrInvalidConfig, err)
		}
		if c.Delay < 1 {
			return fmt.Errorf("%w: oracle delay must be at least 1", ErrInvalidConfig)
		}
		if c.Reference == c.Annotator && c.outDir() == c.DBPath {
			return fmt.Errorf("%w: output annotator %q would overwrite the reference", ErrInvalidConfig, c.Annotator)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown detector %q", ErrInvalidConfig, c.Detector)
	}
}

// RecordNames returns the records the run will replay.
func (c *Config) RecordNames() ([]string, error) {
	if len(c.Records) > 0 {
		return c.Records, nil
	}
	return RecordSet(c.Database)
}

func (c *Config) outDir() string {
	if c.OutDir == "" {
		return c.DBPath
	}
	return c.OutDir
}

// AnnotationPath returns the output annotation path of a record.
func (c *Config) AnnotationPath(name string) string {
	return filepath.Join(c.outDir(), name+"."+c.Annotator)
}

// ReferencePath returns the reference annotation path of a record.
func (c *Config) ReferencePath(name string) string {
	return filepath.Join(c.DBPath, name+"."+c.Reference)
}

func validAnnotator(name string) error {
	if name == "" {
		return errors.New("must not be empty")
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%q must not contain '.' or path separators", name)
	}
	return nil
}

// DetectorFactory creates the detector for an open record.
type DetectorFactory func(info record.Info) (detect.Detector, error)

// AnnotationSink is a pipeline sink that must be closed to be complete.
type AnnotationSink interface {
	pipeline.Sink
	Close() error
}

// SinkFactory creates the annotation output of a record.
type SinkFactory func(name string) (AnnotationSink, error)

// Option configures a Runner.
type Option func(*Runner)

// WithOpener replaces the record opener selected by Config.Format.
func WithOpener(o record.Opener) Option {
	return func(r *Runner) { r.opener = o }
}

// WithDetectors replaces the detector selected by Config.Detector.
func WithDetectors(f DetectorFactory) Option {
	return func(r *Runner) { r.detectors = f }
}

// WithSinks replaces the annotation file writer.
func WithSinks(f SinkFactory) Option {
	return func(r *Runner) { r.sinks = f }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// Runner replays a list of records one after another.
// It is not safe for concurrent use.
type Runner struct {
	config    Config
	records   []string
	opener    record.Opener
	detectors DetectorFactory
	sinks     SinkFactory
	logger    *log.Logger
	pipe      *pipeline.Pipeline
	progress  *progressTracker
}

// NewRunner creates a runner for config.
func NewRunner(config Config, opts ...Option) (*Runner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	records, err := config.RecordNames()
	if err != nil {
		return nil, err
	}

	r := &Runner{config: config, records: records}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.opener == nil {
		r.opener = config.opener()
	}
	if r.detectors == nil {
		if err := config.validateDetector(); err != nil {
			return nil, err
		}
		r.detectors = OracleDetectors(config)
	}
	if r.sinks == nil {
		r.sinks = AnnotationFiles(config)
	}

	r.progress = newProgressTracker(r.logger, config.Verbose)
	r.pipe, err = pipeline.New(pipeline.Config{
		DetectorRate: config.DetectorRate,
		Progress:     r.progress.report,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return r, nil
}

// Records returns the record names in replay order.
func (r *Runner) Records() []string {
	return r.records
}

// Run replays every record and returns the run report.
//
// Without ContinueOnError the first failing record ends the run and no
// later record is opened; the report still covers the records done so far.
func (r *Runner) Run() (*report.Run, error) {
	run := &report.Run{
		Database:     r.config.Database,
		DetectorRate: r.config.DetectorRate,
		Annotator:    r.config.Annotator,
		Detector:     r.config.Detector,
	}
	if len(r.config.Records) > 0 {
		run.Database = ""
	}
	if r.config.ContinueOnError {
		r.logger.Printf("Continuing past failed records")
	}

	for _, name := range r.records {
		r.logger.Printf("Record %s", name)
		summary, err := r.replay(name)
		if err != nil {
			summary.Record = name
			summary.Error = err.Error()
			run.Add(summary)
			if !r.config.ContinueOnError {
				return run, err
			}
			r.logger.Printf("Record %s failed: %v", name, err)
			continue
		}
		if r.config.Verbose {
			r.logger.Printf("Record %s: %d beats, %d samples at %d Hz (from %d Hz), heart rate %.1f bpm",
				name, summary.Beats, summary.OutputSamples, summary.OutputRate, summary.InputRate, summary.HeartRate)
		}
		run.Add(summary)
	}
	return run, nil
}

// replay processes a single record.
func (r *Runner) replay(name string) (report.Summary, error) {
	rec, err := r.opener.Open(name)
	if err != nil {
		return report.Summary{}, fmt.Errorf("%w %s: %w", ErrSourceOpen, name, err)
	}
	defer func() { _ = rec.Close() }()

	info := rec.Info()
	det, err := r.detectors(info)
	if err != nil {
		return report.Summary{}, fmt.Errorf("%w %s: %w", ErrSourceOpen, name, err)
	}

	sink, err := r.sinks(name)
	if err != nil {
		return report.Summary{}, fmt.Errorf("%w for %s: %w", ErrSinkOpen, name, err)
	}

	if r.config.Verbose && info.Frequency > 0 {
		m, n := rateconv.Timebase{InputRate: info.Frequency, OutputRate: r.config.DetectorRate}.Ratio()
		r.logger.Printf("Converting %d Hz to %d Hz (ratio %d:%d), %d channels",
			info.Frequency, r.config.DetectorRate, m, n, info.Channels)
	}

	r.progress.start()
	res, err := r.pipe.Process(rec, det, sink)
	closeErr := sink.Close()
	summary := report.Summarize(res)
	if err != nil {
		return summary, err
	}
	if closeErr != nil {
		return summary, fmt.Errorf("record %s: failed to close annotation output: %w", name, closeErr)
	}
	return summary, nil
}

func (c *Config) opener() record.Opener {
	if c.Format == FormatWAV {
		return wavrec.Opener{Dir: c.DBPath, Options: wavrec.Options{Gain: c.WAVGain}}
	}
	return wfdb.Opener{Dir: c.DBPath}
}

// OracleDetectors returns a factory of oracle detectors that replay each
// record's reference annotations.
func OracleDetectors(config Config) DetectorFactory {
	return func(info record.Info) (detect.Detector, error) {
		ref, err := annot.ReadFile(config.ReferencePath(info.Name))
		if err != nil {
			return nil, fmt.Errorf("reference annotations: %w", err)
		}
		tb, err := rateconv.NewTimebase(info.Frequency, config.DetectorRate)
		if err != nil {
			return nil, err
		}
		oracle, err := detect.NewOracle(ref, tb, config.Delay)
		if err != nil {
			return nil, err
		}
		return oracle, nil
	}
}

// AnnotationFiles returns a factory writing MIT format annotation files
// to config.AnnotationPath.
func AnnotationFiles(config Config) SinkFactory {
	return func(name string) (AnnotationSink, error) {
		w, err := annot.Create(config.AnnotationPath(name))
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
