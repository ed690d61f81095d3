package imageprocessor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestResizeInterpolation(t *testing.T) {
	testCases := []struct {
		name     string
		from, to image.Point
		want     gocv.InterpolationFlags
	}{
		{"shrink", image.Pt(512, 400), image.Pt(128, 128), gocv.InterpolationArea},
		{"shrink one axis", image.Pt(100, 300), image.Pt(128, 128), gocv.InterpolationArea},
		{"enlarge", image.Pt(64, 64), image.Pt(128, 128), gocv.InterpolationCubic},
		{"same size", image.Pt(128, 128), image.Pt(128, 128), gocv.InterpolationCubic},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resizeInterpolation(tc.from, tc.to, gocv.InterpolationCubic))
		})
	}
}

func TestResizeToAveragesFineStripes(t *testing.T) {
	// One-pixel black and white columns average to mid gray when shrunk by
	// area. Sampling interpolations alias them to black or white instead.
	data := make([]byte, 64*64)
	for r := 0; r < 64; r++ {
		for c := 0; c < 64; c++ {
			if c%2 == 0 {
				data[r*64+c] = 255
			}
		}
	}
	src := matFromBytes(t, 64, 64, data)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	resizeTo(src, &dst, image.Pt(16, 16), gocv.InterpolationCubic)

	require.Equal(t, 16, dst.Rows())
	require.Equal(t, 16, dst.Cols())
	for r := 0; r < 16; r++ {
		for c := 0; c < 16; c++ {
			assert.InDelta(t, 128, int(dst.GetUCharAt(r, c)), 1)
		}
	}
}

func TestResizeToSameSizeCopies(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(42, 0, 0, 0), 8, 6, gocv.MatTypeCV8U)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	resizeTo(src, &dst, image.Pt(6, 8), gocv.InterpolationCubic)

	assert.Equal(t, 8, dst.Rows())
	assert.Equal(t, 6, dst.Cols())
	assert.Equal(t, uint8(42), dst.GetUCharAt(7, 5))
}
