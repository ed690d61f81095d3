package scanner

import (
	"fmt"
	"io"
	"time"

	"handcompare/logging"
)

// NewProgressTrackerWriter initializes a tracker writing to out. A nil
// writer disables the progress line.
func NewProgressTrackerWriter(total int, out io.Writer) *ProgressTracker {
	return &ProgressTracker{
		out:       out,
		total:     total,
		startTime: time.Now(),
		quiet:     out == nil,
	}
}

// Record updates the tracker with the outcome of one pair
func (p *ProgressTracker) Record(reference, candidate string, err error) {
	p.processed++
	if err != nil {
		p.errors++
		logging.LogPairCompared(reference, candidate, false, err.Error())
	} else {
		logging.LogPairCompared(reference, candidate, true, "")
	}

	if p.quiet {
		return
	}
	if p.errors > 0 {
		fmt.Fprintf(p.out, "\rProgress: %d/%d (Errors: %d)", p.processed, p.total, p.errors)
	} else {
		fmt.Fprintf(p.out, "\rProgress: %d/%d", p.processed, p.total)
	}
}

// Processed returns the number of pairs recorded so far
func (p *ProgressTracker) Processed() int {
	return p.processed
}

// Finish prints completion statistics
func (p *ProgressTracker) Finish() {
	elapsed := time.Since(p.startTime)
	logging.DebugLog("Comparison finished in %v. Processed: %d, Errors: %d", elapsed, p.processed, p.errors)

	if p.quiet {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Compared %d image pairs in %v.\n", p.processed, elapsed.Round(time.Millisecond))
	if p.errors > 0 {
		fmt.Fprintf(p.out, "Encountered %d errors during comparison.\n", p.errors)
		fmt.Fprintln(p.out, "Check the log file for details.")
	}
}
