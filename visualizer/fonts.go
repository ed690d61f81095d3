package visualizer

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts holds the faces used for chart text and point labels
type Fonts struct {
	Regular *truetype.Font
	Label   *truetype.Font
}

// LoadFonts parses the bundled Go fonts. When path is set, that TrueType
// file is used for both faces instead, which is needed for labels outside
// the Latin range.
func LoadFonts(path string) (*Fonts, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read font %s: %w", path, err)
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("cannot parse font %s: %w", path, err)
		}
		return &Fonts{Regular: f, Label: f}, nil
	}

	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("cannot parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("cannot parse bold font: %w", err)
	}
	return &Fonts{Regular: regular, Label: bold}, nil
}
