// Package visualizer turns result tables into annotated SSIM/LPIPS
// scatter plots.
package visualizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"handcompare/logging"
	"handcompare/scanner"
	"handcompare/table"

	"github.com/pkg/browser"
)

// Options configures a visualizer run
type Options struct {
	// Folder holds the CSV tables; charts are written next to them
	Folder string
	// Show opens every saved chart in the system image viewer
	Show     bool
	FontPath string
	Render   RenderOptions
}

// Summary lists what happened to each table
type Summary struct {
	Plotted []string
	Skipped []string
}

// opener is replaced in tests
var opener = browser.OpenFile

// ImagePath returns the chart path for a table: same folder and base name
// with a .png extension
func ImagePath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".png"
}

// Run plots every CSV table in opts.Folder. Problems with individual files
// are reported as warnings and the file is skipped.
func Run(opts Options) (Summary, error) {
	var summary Summary

	files, err := scanner.ListFilesWithExt(opts.Folder, ".csv")
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		logging.Warn("no CSV files found in %s", opts.Folder)
		return summary, nil
	}

	if opts.Render.Fonts == nil {
		fonts, err := LoadFonts(opts.FontPath)
		if err != nil {
			return summary, err
		}
		opts.Render.Fonts = fonts
	}

	for _, csvPath := range files {
		imagePath, err := PlotFile(csvPath, opts.Render)
		if err != nil {
			logging.Warn("%s: %v, skipping this file", filepath.Base(csvPath), err)
			summary.Skipped = append(summary.Skipped, csvPath)
			continue
		}
		summary.Plotted = append(summary.Plotted, imagePath)
		logging.Success("Chart saved: %s", imagePath)

		if opts.Show {
			if err := opener(imagePath); err != nil {
				logging.Warn("cannot open %s: %v", imagePath, err)
			}
		}
	}

	logging.Success("Finished: %d chart(s) generated, %d file(s) skipped", len(summary.Plotted), len(summary.Skipped))
	return summary, nil
}

// ErrNoPlottableRows is returned when no row survives the range filter
var ErrNoPlottableRows = errors.New("no rows with SSIM and LPIPS in [0,1]")

// PlotFile reads one table, filters it and saves its chart, returning the
// chart path
func PlotFile(csvPath string, opts RenderOptions) (string, error) {
	name := filepath.Base(csvPath)

	t, err := table.Read(csvPath)
	if err != nil {
		return "", err
	}

	r := ObservedRanges(t)
	logging.Info("%s - SSIM range: %v ~ %v, LPIPS range: %v ~ %v", name, r.SSIMMin, r.SSIMMax, r.LPIPSMin, r.LPIPSMax)

	filtered := Filter(t)
	if dropped := len(t) - len(filtered); dropped > 0 {
		logging.LogInfo("%s: %d of %d rows outside [0,1] left out of the chart", name, dropped, len(t))
	}
	if len(filtered) == 0 {
		return "", ErrNoPlottableRows
	}

	imagePath := ImagePath(csvPath)
	if err := Save(imagePath, Title(name), filtered, opts); err != nil {
		return "", fmt.Errorf("cannot save chart: %w", err)
	}
	return imagePath, nil
}
