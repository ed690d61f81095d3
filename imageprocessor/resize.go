package imageprocessor

import (
	"image"

	"gocv.io/x/gocv"
)

// resizeInterpolation returns area averaging when either axis shrinks,
// otherwise the given upscaling interpolation
func resizeInterpolation(from, to image.Point, upscale gocv.InterpolationFlags) gocv.InterpolationFlags {
	if to.X < from.X || to.Y < from.Y {
		return gocv.InterpolationArea
	}
	return upscale
}

// resizeTo resizes src into dst, antialiasing on downscale
func resizeTo(src gocv.Mat, dst *gocv.Mat, size image.Point, upscale gocv.InterpolationFlags) {
	from := image.Point{X: src.Cols(), Y: src.Rows()}
	if from == size {
		src.CopyTo(dst)
		return
	}
	gocv.Resize(src, dst, size, 0, 0, resizeInterpolation(from, size, upscale))
}
