package replay

import "log"

// progressTracker logs conversion progress of the current record.
type progressTracker struct {
	logger       *log.Logger
	verbose      bool
	lastProgress int
}

func newProgressTracker(logger *log.Logger, verbose bool) *progressTracker {
	return &progressTracker{logger: logger, verbose: verbose}
}

// start rearms the tracker for a new record.
func (p *progressTracker) start() {
	p.lastProgress = 0
}

// report logs progress if another threshold was crossed.
func (p *progressTracker) report(done, total int64) {
	if !p.verbose || total <= 0 {
		return
	}

	progress := min(int(done*percentScale/total), percentScale)
	if progress >= p.lastProgress+progressStep {
		p.logger.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}
