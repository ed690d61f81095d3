package imageprocessor

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"

	"gocv.io/x/gocv"
)

// GoImageLoader decodes with the Go image packages. It backs up OpenCV for
// files it refuses, such as PNGs with unusual chunk layouts.
type GoImageLoader struct {
	Gray bool
}

func (l *GoImageLoader) CanLoad(path string) bool {
	return IsImageFile(path) && fileExists(path)
}

func (l *GoImageLoader) LoadImage(path string) (gocv.Mat, error) {
	decoded, err := decodeWithGo(path)
	if err != nil {
		return gocv.NewMat(), &DecodeError{Path: path, Err: err}
	}
	mat, err := matFromGoImage(decoded, l.Gray)
	if err != nil {
		return gocv.NewMat(), &DecodeError{Path: path, Err: err}
	}
	return mat, nil
}

func decodeWithGo(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// matFromGoImage converts a decoded image to a BGR Mat, or a single-channel
// one when gray is set
func matFromGoImage(img image.Image, gray bool) (gocv.Mat, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			data = append(data, uint8(b>>8), uint8(g>>8), uint8(r>>8))
		}
	}

	view, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("cannot convert decoded image: %w", err)
	}
	// The view may share data with the Go slice
	bgr := view.Clone()
	view.Close()
	runtime.KeepAlive(data)
	if !gray {
		return bgr, nil
	}

	grayMat := gocv.NewMat()
	gocv.CvtColor(bgr, &grayMat, gocv.ColorBGRToGray)
	bgr.Close()
	return grayMat, nil
}
