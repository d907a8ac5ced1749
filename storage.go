package remix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExportFileName is the name a result image is exported under.
// It is always .png, whatever the image's actual MIME type.
const ExportFileName = "remix-ai-generated.png"

// Storage is an interface for persisting exported images.
// Implementations can wrap existing storage clients (GCS, S3, etc.).
type Storage interface {
	// SaveFile saves image data and returns a URL or path where it can be found.
	SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error)
}

// StorageResult contains information about a saved image.
type StorageResult struct {
	// URL is where the image can be accessed
	URL string

	// Path is the storage path/key where the image was saved
	Path string

	// Size is the number of bytes saved
	Size int
}

// Export saves the result image to storage as {dir}/remix-ai-generated.png.
func Export(ctx context.Context, storage Storage, result *GenerationResult, dir string) (*StorageResult, error) {
	if storage == nil {
		return nil, ErrStorageNotConfigured
	}

	data, mimeType, err := result.ImageBytes()
	if err != nil {
		return nil, err
	}

	path := ExportFileName
	if dir != "" {
		path = filepath.Join(dir, ExportFileName)
	}

	url, err := storage.SaveFile(ctx, data, path, mimeType)
	if err != nil {
		return nil, fmt.Errorf("exporting image: %w", err)
	}

	return &StorageResult{
		URL:  url,
		Path: path,
		Size: len(data),
	}, nil
}

// FileStorage writes files to the local filesystem.
type FileStorage struct {
	// Perm is the mode for created files; 0644 when zero
	Perm os.FileMode
}

// Ensure FileStorage implements Storage.
var _ Storage = (*FileStorage)(nil)

// SaveFile writes data to path, creating parent directories as needed.
func (s *FileStorage) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return "file://" + abs, nil
}
