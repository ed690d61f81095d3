package imageprocessor

import (
	"errors"
	"fmt"
	"image"
	"os"

	"handcompare/logging"
	"handcompare/result"

	"gocv.io/x/gocv"
)

// DefaultLPIPSSize is the square resolution images are resized to before
// being fed to the LPIPS network
const DefaultLPIPSSize = 224

// Input names of the two-input LPIPS ONNX export
const (
	lpipsInput0 = "in0"
	lpipsInput1 = "in1"
)

// LPIPSOptions configures the perceptual distance network
type LPIPSOptions struct {
	ModelPath string
	InputSize int
	// Normalize scales pixels to [-1,1] instead of [0,1]
	Normalize bool
}

// LPIPS holds a loaded perceptual similarity network. It is not safe for
// concurrent use.
type LPIPS struct {
	net       gocv.Net
	size      image.Point
	normalize bool
	loader    ImageLoader
}

// NewLPIPS loads the ONNX network at opts.ModelPath
func NewLPIPS(opts LPIPSOptions) (*LPIPS, error) {
	if opts.ModelPath == "" {
		return nil, errors.New("no LPIPS model path configured")
	}
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, fmt.Errorf("cannot access LPIPS model: %w", err)
	}
	if opts.InputSize <= 0 {
		opts.InputSize = DefaultLPIPSSize
	}

	net := gocv.ReadNetFromONNX(opts.ModelPath)
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("failed to load LPIPS model from %s", opts.ModelPath)
	}
	logging.DebugLog("Loaded LPIPS model %s (input %dx%d, normalize=%v)",
		opts.ModelPath, opts.InputSize, opts.InputSize, opts.Normalize)

	return &LPIPS{
		net:       net,
		size:      image.Point{X: opts.InputSize, Y: opts.InputSize},
		normalize: opts.Normalize,
		loader:    NewColorRegistry(),
	}, nil
}

// Close releases the network
func (l *LPIPS) Close() error {
	return l.net.Close()
}

// Distance returns the perceptual distance between two images. Lower is
// more similar. Decode failures are returned as *DecodeError.
func (l *LPIPS) Distance(path1, path2 string) (float64, error) {
	return l.DistanceResult(path1, path2).Unwrap()
}

// DistanceResult is Distance as a result value
func (l *LPIPS) DistanceResult(path1, path2 string) result.Result[float64] {
	blob1, err := PrepareTensor(l.loader, path1, l.size, l.normalize)
	if err != nil {
		return result.Err[float64](err)
	}
	defer blob1.Close()

	blob2, err := PrepareTensor(l.loader, path2, l.size, l.normalize)
	if err != nil {
		return result.Err[float64](err)
	}
	defer blob2.Close()

	l.net.SetInput(blob1, lpipsInput0)
	l.net.SetInput(blob2, lpipsInput1)

	out := l.net.Forward("")
	defer out.Close()

	values, err := out.DataPtrFloat32()
	if err != nil {
		return result.Err[float64](fmt.Errorf("reading LPIPS output: %w", err))
	}
	if len(values) == 0 {
		return result.Errf[float64]("LPIPS network returned an empty output for %s vs %s", path1, path2)
	}

	return result.Ok(float64(values[0]))
}

// PrepareTensor loads an image as 3-channel color and converts it to a
// 1x3xHxW float32 blob in RGB order, resized to size with area averaging
// when shrinking. Pixel values are
// scaled to [0,1], or to [-1,1] when normalize is set.
func PrepareTensor(loader ImageLoader, path string, size image.Point, normalize bool) (gocv.Mat, error) {
	img, err := loader.LoadImage(path)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer img.Close()

	if img.Channels() != 3 {
		converted := gocv.NewMat()
		defer converted.Close()
		switch img.Channels() {
		case 1:
			gocv.CvtColor(img, &converted, gocv.ColorGrayToBGR)
		case 4:
			gocv.CvtColor(img, &converted, gocv.ColorBGRAToBGR)
		default:
			return gocv.NewMat(), &DecodeError{Path: path, Err: fmt.Errorf("unsupported channel count %d", img.Channels())}
		}
		converted.CopyTo(&img)
	}

	scale := 1.0 / 255.0
	mean := gocv.NewScalar(0, 0, 0, 0)
	if normalize {
		scale = 1.0 / 127.5
		mean = gocv.NewScalar(127.5, 127.5, 127.5, 0)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	resizeTo(img, &resized, size, gocv.InterpolationLinear)

	blob := gocv.BlobFromImage(resized, scale, size, mean, true, false)
	if blob.Empty() {
		blob.Close()
		return gocv.NewMat(), &DecodeError{Path: path, Err: errors.New("failed to build input tensor")}
	}
	return blob, nil
}
