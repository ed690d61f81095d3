package imageprocessor

import (
	"path/filepath"
	"strings"
)

// imageExtensions lists the accepted image file extensions
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImageFile checks if a file is a supported image based on extension
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}
