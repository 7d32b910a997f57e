// Command ecg-replay runs a beat detector over an ECG database and writes
// one annotation file per record.
//
// Usage:
//
//	ecg-replay -dbpath /data/mitdb                       # all 48 MIT-BIH records
//	ecg-replay -dbpath /data/aha -db aha -out /tmp/ann   # AHA records, separate output
//	ecg-replay -dbpath /data/mitdb -records 100,101 -v   # selected records with progress
//	ecg-replay -dbpath ./wav -format wav -records ecg1   # PCM WAV input
//	ecg-replay -dbpath /data/mitdb -report run.json      # JSON run report
//
// The built-in oracle detector replays each record's reference annotations
// (<record>.atr by default) at the detector rate, which checks the whole
// rate conversion and back-mapping chain against the reference: every
// output beat must land on its reference sample or the one after it.
//
// The output annotations (<record>.ate by default) can be compared against
// the reference with the WFDB bxb tool.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	replay "github.com/tphakala/go-ecg-replay"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(exitUsage)
		}
		log.Fatal(err)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	config := opts.config()
	if opts.verbose {
		log.Printf("Database: %s (%s)", config.DBPath, config.Format)
		log.Printf("Output: %s/*.%s", outputDir(config), config.Annotator)
		log.Printf("Detector: %s at %d Hz, delay %d", config.Detector, config.DetectorRate, config.Delay)
		if config.ContinueOnError {
			log.Printf("Failure mode: continue with the next record")
		} else {
			log.Printf("Failure mode: stop at the first failed record")
		}
	}

	if config.OutDir != "" {
		if err := os.MkdirAll(config.OutDir, outputDirPerm); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	runner, err := replay.NewRunner(config)
	if err != nil {
		return err
	}
	if opts.verbose {
		log.Printf("Records: %s", strings.Join(runner.Records(), " "))
	}

	result, runErr := runner.Run()

	if opts.reportPath != "" && result != nil {
		if err := result.WriteFile(opts.reportPath); err != nil {
			return errors.Join(runErr, err)
		}
		if opts.verbose {
			log.Printf("Report: %s", opts.reportPath)
		}
	}
	if runErr != nil {
		return runErr
	}

	log.Printf("Done: %d records, %d beats, %d failed",
		len(result.Records), result.TotalBeats, result.Failed)
	return nil
}
