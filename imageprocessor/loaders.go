package imageprocessor

import (
	"errors"
	"os"

	"handcompare/logging"

	"gocv.io/x/gocv"
)

// DefaultImageLoader handles PNG and JPEG files through gocv
type DefaultImageLoader struct {
	Flags gocv.IMReadFlag
}

// NewColorLoader returns a loader producing 3-channel BGR images
func NewColorLoader() *DefaultImageLoader {
	return &DefaultImageLoader{Flags: gocv.IMReadColor}
}

// NewGrayLoader returns a loader producing single-channel images
func NewGrayLoader() *DefaultImageLoader {
	return &DefaultImageLoader{Flags: gocv.IMReadGrayScale}
}

func (l *DefaultImageLoader) CanLoad(path string) bool {
	return IsImageFile(path) && fileExists(path)
}

func (l *DefaultImageLoader) LoadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, l.Flags)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), &DecodeError{Path: path, Err: errors.New("OpenCV cannot decode the file")}
	}
	return img, nil
}

// ImageLoaderRegistry manages available image loaders. Loaders are tried in
// registration order until one succeeds.
type ImageLoaderRegistry struct {
	loaders []ImageLoader
}

// NewImageLoaderRegistry creates a registry with the given loaders
func NewImageLoaderRegistry(loaders ...ImageLoader) *ImageLoaderRegistry {
	return &ImageLoaderRegistry{loaders: loaders}
}

// NewColorRegistry reads 3-channel BGR images with OpenCV, falling back to
// the Go decoders
func NewColorRegistry() *ImageLoaderRegistry {
	r := NewImageLoaderRegistry(NewColorLoader())
	r.RegisterLoader(&GoImageLoader{})
	return r
}

// NewGrayRegistry is NewColorRegistry for single-channel images
func NewGrayRegistry() *ImageLoaderRegistry {
	r := NewImageLoaderRegistry(NewGrayLoader())
	r.RegisterLoader(&GoImageLoader{Gray: true})
	return r
}

// RegisterLoader adds a loader after the existing ones
func (r *ImageLoaderRegistry) RegisterLoader(loader ImageLoader) {
	r.loaders = append(r.loaders, loader)
}

// CanLoad checks if any registered loader can handle the given file
func (r *ImageLoaderRegistry) CanLoad(path string) bool {
	for _, loader := range r.loaders {
		if loader.CanLoad(path) {
			return true
		}
	}
	return false
}

// LoadImage returns the image from the first loader that decodes it. When
// all of them fail the first error is returned.
func (r *ImageLoaderRegistry) LoadImage(path string) (gocv.Mat, error) {
	if !fileExists(path) {
		return gocv.NewMat(), &DecodeError{Path: path, Err: os.ErrNotExist}
	}

	var firstErr error
	for i, loader := range r.loaders {
		if !loader.CanLoad(path) {
			continue
		}
		img, err := loader.LoadImage(path)
		if err == nil {
			if i > 0 {
				logging.DebugLog("Decoded %s with fallback loader %d", path, i)
			}
			return img, nil
		}
		img.Close()
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		firstErr = &DecodeError{Path: path, Err: errors.New("no suitable loader found")}
	}
	return gocv.NewMat(), firstErr
}

// fileExists checks if a file exists and is accessible
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
