package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModelExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lpips.onnx")
	require.NoError(t, os.WriteFile(path, []byte("onnx"), 0644))

	got, err := PrepareModel(Options{Path: path, Repo: "ignored/repo"})
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = PrepareModel(Options{Path: path + ".missing"})
	assert.Error(t, err)
}

func TestPrepareModelRequiresSource(t *testing.T) {
	_, err := PrepareModel(Options{})
	assert.Error(t, err)
}

func TestPrepareModelUsesExistingDownload(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "someone_lpips")
	require.NoError(t, os.MkdirAll(modelPath, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(modelPath, DefaultOnnxFile), []byte("onnx"), 0644))

	original := downloader
	defer func() { downloader = original }()
	downloader = func(string, string, string) (string, error) {
		t.Fatal("download should not be attempted")
		return "", nil
	}

	got, err := PrepareModel(Options{Repo: "someone/lpips", Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(modelPath, DefaultOnnxFile), got)
}

func TestPrepareModelDownloads(t *testing.T) {
	dir := t.TempDir()

	original := downloader
	defer func() { downloader = original }()
	downloader = func(repo, modelDir, onnxFile string) (string, error) {
		assert.Equal(t, "someone/lpips", repo)
		assert.Equal(t, "vgg.onnx", onnxFile)
		target := filepath.Join(modelDir, SanitizeName(repo))
		require.NoError(t, os.MkdirAll(target, 0750))
		require.NoError(t, os.WriteFile(filepath.Join(target, onnxFile), []byte("onnx"), 0644))
		return target, nil
	}

	got, err := PrepareModel(Options{Repo: "someone/lpips", Dir: dir, OnnxFile: "vgg.onnx"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "someone_lpips", "vgg.onnx"), got)
}

func TestPrepareModelDownloadFailure(t *testing.T) {
	original := downloader
	defer func() { downloader = original }()
	downloader = func(string, string, string) (string, error) {
		return "", errors.New("offline")
	}

	_, err := PrepareModel(Options{Repo: "someone/lpips", Dir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download model")
}
