// Package replay runs ECG beat detectors over recorded databases.
//
// A beat detector is written for one fixed sample rate, while the records of
// the MIT-BIH and AHA arrhythmia databases are sampled at 360 Hz and 250 Hz.
// Replay converts every record to the detector's rate with a rational
// linear-interpolation converter, feeds the primary channel to the detector
// one sample at a time, and maps each reported beat back to the record's own
// sample index so the output annotations line up with the reference ones.
//
// # Quick Start
//
// Replaying a WFDB database with the built-in oracle detector:
//
//	config := replay.DefaultConfig()
//	config.DBPath = "/data/mitdb"
//	config.OutDir = "/data/mitdb"
//	runner, err := replay.NewRunner(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	run, err := runner.Run()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(run.TotalBeats)
//
// Each record gets an annotation file <record>.<annotator> in OutDir, in the
// MIT format the WFDB tools read, so it can be compared against the
// reference annotations with bxb.
//
// # Failure Handling
//
// A record that cannot be opened, or whose annotation file cannot be
// created, stops the run before any later record is attempted. Setting
// [Config.ContinueOnError] logs the failure, records it in the run report
// and moves on to the next record instead. Annotations already written are
// never retracted.
//
// # Sample Rate Conversion
//
// For input rate ifreq and output rate ofreq with g = gcd(ifreq, ofreq),
// the converter advances two phase counters in steps of ofreq/g and
// ifreq/g and interpolates linearly between the two most recent input
// vectors. All arithmetic is integer and division truncates toward zero,
// so results are bit-exact across platforms. See [ResampleVectors].
package replay
