package scanner

import (
	"io"
	"time"
)

// ProgressTracker reports comparison progress on a single line
type ProgressTracker struct {
	out       io.Writer
	total     int
	processed int
	errors    int
	startTime time.Time
	quiet     bool
}
