// Package model locates the LPIPS network, downloading an ONNX export from
// the Hugging Face hub when it is not available locally.
package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"handcompare/logging"

	"github.com/knights-analytics/hugot"
)

// DefaultOnnxFile is the file name looked up inside a downloaded repository
const DefaultOnnxFile = "lpips_alex.onnx"

// DefaultModelDir is where downloaded models are stored
const DefaultModelDir = "./models"

// Options selects the LPIPS model. Path wins over Repo.
type Options struct {
	Path     string
	Repo     string
	OnnxFile string
	Dir      string
}

// downloader is replaced in tests
var downloader = func(repo, dir, onnxFile string) (string, error) {
	downloadOptions := hugot.NewDownloadOptions()
	downloadOptions.OnnxFilePath = onnxFile
	return hugot.DownloadModel(repo, dir, downloadOptions)
}

// SanitizeName turns a hub repository name into a directory name
func SanitizeName(repo string) string {
	return strings.ReplaceAll(repo, "/", "_")
}

// PrepareModel returns the path of the LPIPS ONNX file, downloading the
// repository first if it is not already present in opts.Dir
func PrepareModel(opts Options) (string, error) {
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err != nil {
			return "", fmt.Errorf("cannot access model %s: %w", opts.Path, err)
		}
		return opts.Path, nil
	}
	if opts.Repo == "" {
		return "", errors.New("no LPIPS model configured: set --model or --model-repo")
	}

	onnxFile := opts.OnnxFile
	if onnxFile == "" {
		onnxFile = DefaultOnnxFile
	}
	modelDir := opts.Dir
	if modelDir == "" {
		modelDir = DefaultModelDir
	}

	modelPath := filepath.Join(modelDir, SanitizeName(opts.Repo))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create model directory: %w", err)
		}
		logging.Info("Downloading LPIPS model %s into %s", opts.Repo, modelDir)
		downloadedPath, err := downloader(opts.Repo, modelDir, onnxFile)
		if err != nil {
			return "", fmt.Errorf("failed to download model: %w", err)
		}
		modelPath = downloadedPath
	}

	onnxPath := filepath.Join(modelPath, onnxFile)
	if _, err := os.Stat(onnxPath); err != nil {
		return "", fmt.Errorf("model file %s not found: %w", onnxPath, err)
	}
	return onnxPath, nil
}
