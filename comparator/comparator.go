// Package comparator runs the full reference × candidate comparison and
// ranks the results by perceptual distance.
package comparator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"handcompare/logging"
	"handcompare/scanner"
	"handcompare/types"
)

// ErrNoReferences is returned before any work when no reference images exist
var ErrNoReferences = errors.New("no reference images: the mine folder must contain PNG, JPG or JPEG files")

// DistanceFunc computes the perceptual distance between a reference and a
// candidate image. Errors abort the batch.
type DistanceFunc func(reference, candidate string) (float64, error)

// SimilarityFunc computes the structural similarity of a pair. It never
// fails; implementations report problems themselves and return a default.
type SimilarityFunc func(reference, candidate string) float64

// Comparator pairs every reference with every candidate image
type Comparator struct {
	Distance   DistanceFunc
	Similarity SimilarityFunc
	// Progress receives the progress line; nil disables it
	Progress io.Writer
}

// New creates a comparator writing progress to stdout
func New(distance DistanceFunc, similarity SimilarityFunc) *Comparator {
	return &Comparator{
		Distance:   distance,
		Similarity: similarity,
		Progress:   os.Stdout,
	}
}

// CompareFolders compares the images in mineFolder against those in folder
func (c *Comparator) CompareFolders(folder, mineFolder string) (types.Table, error) {
	references, err := scanner.ListImages(mineFolder)
	if err != nil {
		return nil, err
	}
	return c.Compare(folder, references)
}

// Compare computes one row per (reference, candidate) pair, with candidates
// taken from folder, and returns them sorted by ascending LPIPS
func (c *Comparator) Compare(folder string, references []string) (types.Table, error) {
	if len(references) == 0 {
		return nil, ErrNoReferences
	}
	if c.Distance == nil || c.Similarity == nil {
		return nil, errors.New("comparator needs both a distance and a similarity function")
	}

	candidates, err := scanner.ListImages(folder)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logging.Warn("no candidate images found in %s", folder)
	}

	logging.DebugLog("Comparing %d reference images against %d candidates in %s",
		len(references), len(candidates), folder)

	tracker := scanner.NewProgressTrackerWriter(len(references)*len(candidates), c.Progress)
	table := make(types.Table, 0, len(references)*len(candidates))

	for _, reference := range references {
		for _, candidate := range candidates {
			distance, err := c.Distance(reference, candidate)
			if err != nil {
				tracker.Record(reference, candidate, err)
				return nil, fmt.Errorf("LPIPS %s vs %s: %w", filepath.Base(reference), filepath.Base(candidate), err)
			}
			similarity := c.Similarity(reference, candidate)
			tracker.Record(reference, candidate, nil)

			table = append(table, types.Row{
				Student:   filepath.Base(candidate),
				LPIPS:     distance,
				SSIM:      similarity,
				Reference: filepath.Base(reference),
			})
		}
	}
	tracker.Finish()

	SortByLPIPS(table)
	return table, nil
}

// SortByLPIPS orders rows by ascending LPIPS, keeping the order of ties
func SortByLPIPS(table types.Table) {
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].LPIPS < table[j].LPIPS
	})
}
