package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrImageNotFound rejects avatar paths that do not point at a file.
var ErrImageNotFound = errors.New("image file not found")

// ImagePicker selects an avatar image and returns its URI.
type ImagePicker interface {
	Pick(path string) (string, error)
}

// FilePicker picks avatars from the local filesystem.
type FilePicker struct{}

// Pick validates that path names an existing regular file and returns
// a file:// URI for it.
func (FilePicker) Pick(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", ErrImageNotFound
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageNotFound, err)
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrImageNotFound, trimmed)
	}
	return "file://" + abs, nil
}
