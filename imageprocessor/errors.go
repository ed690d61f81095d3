package imageprocessor

import (
	"errors"
	"fmt"
)

// ErrImageTooSmall is wrapped by a ComputeError when the SSIM window cannot fit
var ErrImageTooSmall = errors.New("image too small for SSIM window")

// DecodeError reports an image that could not be read. Distance
// computations return it to the caller and the batch stops.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to decode image %s", e.Path)
	}
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ComputeError reports a similarity computation that failed. It is
// never returned past ComputeSSIM, which maps it to a zero score.
type ComputeError struct {
	Op  string
	Err error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s computation failed: %v", e.Op, e.Err)
}

func (e *ComputeError) Unwrap() error { return e.Err }
