package imageprocessor

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// writeStrokeImage writes a white PNG with a dark diagonal stroke and a bar,
// roughly the shape of a handwritten glyph
func writeStrokeImage(t *testing.T, dir, name string, width, height, offset int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	for i := 0; i < min(width, height); i++ {
		for d := 0; d < 3; d++ {
			x := i + d + offset
			if x >= 0 && x < width {
				img.Set(x, i, color.RGBA{R: 20, G: 20, B: 20, A: 255})
			}
		}
	}
	for x := width / 4; x < 3*width/4; x++ {
		y := height/2 + offset
		if y >= 0 && y < height {
			img.Set(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// matFromBytes builds an owned single-channel 8-bit Mat of rows×cols
func matFromBytes(t *testing.T, rows, cols int, data []byte) gocv.Mat {
	t.Helper()

	view, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8U, data)
	require.NoError(t, err)
	m := view.Clone()
	view.Close()
	return m
}
