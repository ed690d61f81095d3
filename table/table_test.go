package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"handcompare/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesFolderAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excel", "results.csv")
	table := types.Table{
		{Student: "a.png", LPIPS: 0.125, SSIM: 0.9, Reference: "mine.png"},
		{Student: "b, c.png", LPIPS: 0.3, SSIM: -0.05},
	}
	require.NoError(t, Write(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Student,LPIPS,SSIM\na.png,0.125,0.9\n\"b, c.png\",0.3,-0.05\n", string(data))
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, Write(path, types.Table{{Student: "a.png"}, {Student: "b.png"}}))
	require.NoError(t, Write(path, types.Table{{Student: "c.png", LPIPS: 1, SSIM: 1}}))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, types.Table{{Student: "c.png", LPIPS: 1, SSIM: 1}}, got)
}

func TestFormatFloat(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{0.125, "0.125"},
		{-0.05, "-0.05"},
		{1234567, "1234567.0"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1.5e-7, "1.5e-07"},
		{1e16, "1e+16"},
		{0.1234567890123, "0.1234567890123"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatFloat(tc.in), "value %v", tc.in)
	}
}

func TestWriteIntegralScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, Write(path, types.Table{{Student: "a.png", LPIPS: 0, SSIM: 1}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Student,LPIPS,SSIM\na.png,0.0,1.0\n", string(data))
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	table := types.Table{
		{Student: "學生一.png", LPIPS: 0.1234567890123, SSIM: 0.987654321},
		{Student: "b.jpg", LPIPS: 1e-7, SSIM: 0},
		{Student: "c.jpeg", LPIPS: 2.5, SSIM: -0.25},
	}
	require.NoError(t, Write(path, table))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, len(table))
	for i := range table {
		assert.Equal(t, table[i].Student, got[i].Student)
		assert.Equal(t, table[i].LPIPS, got[i].LPIPS)
		assert.Equal(t, table[i].SSIM, got[i].SSIM)
		assert.Empty(t, got[i].Reference)
	}
}

func TestDecodeColumnOrderAndNaN(t *testing.T) {
	input := "SSIM,Extra,Student,LPIPS\n0.5,x,a.png,0.2\nbad,y,b.png,\n"
	got, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, types.Row{Student: "a.png", LPIPS: 0.2, SSIM: 0.5}, got[0])
	assert.Equal(t, "b.png", got[1].Student)
	assert.True(t, math.IsNaN(got[1].LPIPS))
	assert.True(t, math.IsNaN(got[1].SSIM))
}

func TestReadMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.csv")
	require.NoError(t, os.WriteFile(path, []byte("Student,LPIPS\na.png,0.1\n"), 0644))

	_, err := Read(path)
	var missing *MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"SSIM"}, missing.Missing)
	assert.Equal(t, path, missing.Path)
}

func TestReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := Read(path)
	var missing *MissingColumnsError
	assert.True(t, errors.As(err, &missing))
}

func TestReadHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.csv")
	require.NoError(t, os.WriteFile(path, []byte("Student,LPIPS,SSIM\n"), 0644))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
