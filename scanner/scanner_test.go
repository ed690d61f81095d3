package scanner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestListImagesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "notes.txt", "d.gif", "results.csv"} {
		touch(t, filepath.Join(dir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	touch(t, filepath.Join(dir, "sub", "e.png"))

	images, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.PNG"),
		filepath.Join(dir, "c.jpeg"),
	}, images)
}

func TestListFilesWithExt(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run2.CSV"))
	touch(t, filepath.Join(dir, "run1.csv"))
	touch(t, filepath.Join(dir, "run1.png"))

	files, err := ListFilesWithExt(dir, ".csv")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "run1.csv"), filepath.Join(dir, "run2.CSV")}, files)
}

func TestListImagesMissingFolder(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTrackerWriter(2, &buf)
	p.Record("mine.png", "a.png", nil)
	p.Record("mine.png", "b.png", errors.New("bad"))
	p.Finish()

	assert.Equal(t, 2, p.Processed())
	assert.Contains(t, buf.String(), "Progress: 2/2 (Errors: 1)")
	assert.Contains(t, buf.String(), "Compared 2 image pairs")
}
