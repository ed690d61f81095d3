package imageprocessor

import (
	"fmt"
	"image"

	"handcompare/logging"
	"handcompare/result"

	"gocv.io/x/gocv"
)

// DefaultSSIMSize is the resolution both images are resized to before SSIM
var DefaultSSIMSize = image.Point{X: 128, Y: 128}

const (
	maxSSIMWindow = 7
	minSSIMWindow = 3
	ssimDataRange = 255.0
	ssimK1        = 0.01
	ssimK2        = 0.03
)

// WindowSize returns the odd SSIM window for an image of the given
// dimensions, capped at 7
func WindowSize(rows, cols int) int {
	win := min(maxSSIMWindow, min(rows, cols))
	if win%2 == 0 {
		win--
	}
	return win
}

// ComputeSSIM returns the mean structural similarity of two images after
// converting both to grayscale and resizing them to size. Failures are
// logged and reported as a similarity of 0.
func ComputeSSIM(path1, path2 string, size image.Point) float64 {
	return SSIMResult(path1, path2, size).
		OnErr(func(err error) {
			logging.Warn("SSIM failed for %s vs %s: %v", path1, path2, err)
		}).
		UnwrapOr(0)
}

// SSIMResult is ComputeSSIM without the fallback. Every failure is a
// *ComputeError.
func SSIMResult(path1, path2 string, size image.Point) (res result.Result[float64]) {
	defer func() {
		if r := recover(); r != nil {
			res = result.Err[float64](&ComputeError{Op: "ssim", Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	if size.X <= 0 || size.Y <= 0 {
		return result.Err[float64](&ComputeError{Op: "ssim", Err: fmt.Errorf("invalid target size %dx%d", size.X, size.Y)})
	}

	loader := NewGrayRegistry()

	img1, err := loader.LoadImage(path1)
	if err != nil {
		return result.Err[float64](&ComputeError{Op: "ssim", Err: err})
	}
	defer img1.Close()

	img2, err := loader.LoadImage(path2)
	if err != nil {
		return result.Err[float64](&ComputeError{Op: "ssim", Err: err})
	}
	defer img2.Close()

	resized1 := gocv.NewMat()
	defer resized1.Close()
	resized2 := gocv.NewMat()
	defer resized2.Close()

	resizeTo(img1, &resized1, size, gocv.InterpolationCubic)
	resizeTo(img2, &resized2, size, gocv.InterpolationCubic)

	minDim := min(resized1.Rows(), resized1.Cols())
	win := WindowSize(resized1.Rows(), resized1.Cols())
	if win < minSSIMWindow {
		return result.Err[float64](&ComputeError{
			Op:  "ssim",
			Err: fmt.Errorf("%w: smallest dimension %d, minimum window %d", ErrImageTooSmall, minDim, minSSIMWindow),
		})
	}

	return result.FromPair(MeanSSIM(resized1, resized2, win))
}

// MeanSSIM computes the mean SSIM of two single-channel 8-bit images of the
// same size using a uniform win×win window. Local statistics use the sample
// covariance, and a border of (win-1)/2 pixels is excluded from the mean.
func MeanSSIM(img1, img2 gocv.Mat, win int) (float64, error) {
	if img1.Rows() != img2.Rows() || img1.Cols() != img2.Cols() {
		return 0, &ComputeError{Op: "ssim", Err: fmt.Errorf("size mismatch %dx%d vs %dx%d",
			img1.Cols(), img1.Rows(), img2.Cols(), img2.Rows())}
	}
	if win < minSSIMWindow || win%2 == 0 || win > min(img1.Rows(), img1.Cols()) {
		return 0, &ComputeError{Op: "ssim", Err: fmt.Errorf("invalid window size %d", win)}
	}

	x := gocv.NewMat()
	defer x.Close()
	y := gocv.NewMat()
	defer y.Close()
	img1.ConvertTo(&x, gocv.MatTypeCV64F)
	img2.ConvertTo(&y, gocv.MatTypeCV64F)

	xx := gocv.NewMat()
	defer xx.Close()
	yy := gocv.NewMat()
	defer yy.Close()
	xy := gocv.NewMat()
	defer xy.Close()
	gocv.Multiply(x, x, &xx)
	gocv.Multiply(y, y, &yy)
	gocv.Multiply(x, y, &xy)

	ksize := image.Point{X: win, Y: win}
	means := make([][]float64, 0, 5)
	for _, src := range []gocv.Mat{x, y, xx, yy, xy} {
		filtered := gocv.NewMat()
		gocv.Blur(src, &filtered, ksize)
		data, err := filtered.DataPtrFloat64()
		if err != nil {
			filtered.Close()
			return 0, &ComputeError{Op: "ssim", Err: err}
		}
		values := make([]float64, len(data))
		copy(values, data)
		filtered.Close()
		means = append(means, values)
	}
	ux, uy, uxx, uyy, uxy := means[0], means[1], means[2], means[3], means[4]

	np := float64(win * win)
	covNorm := np / (np - 1)
	c1 := (ssimK1 * ssimDataRange) * (ssimK1 * ssimDataRange)
	c2 := (ssimK2 * ssimDataRange) * (ssimK2 * ssimDataRange)

	rows, cols := img1.Rows(), img1.Cols()
	pad := (win - 1) / 2

	var sum float64
	var count int
	for r := pad; r < rows-pad; r++ {
		for c := pad; c < cols-pad; c++ {
			i := r*cols + c
			vx := covNorm * (uxx[i] - ux[i]*ux[i])
			vy := covNorm * (uyy[i] - uy[i]*uy[i])
			vxy := covNorm * (uxy[i] - ux[i]*uy[i])

			num := (2*ux[i]*uy[i] + c1) * (2*vxy + c2)
			den := (ux[i]*ux[i] + uy[i]*uy[i] + c1) * (vx + vy + c2)
			sum += num / den
			count++
		}
	}

	return sum / float64(count), nil
}
