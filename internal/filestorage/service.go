// File: internal/filestorage/service.go
package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"marvel_nexus_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service stores uploaded files under the configured upload directory.
type Service struct {
	storagePath string
	logger      *zap.Logger
}

// NewService creates the upload directory if needed and returns the service.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	storagePath := cfg.UploadDir
	if storagePath == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if err := os.MkdirAll(storagePath, os.ModePerm); err != nil {
		logger.Error("Failed to create upload directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create upload directory %s: %w", storagePath, err)
	}
	return &Service{storagePath: storagePath, logger: logger}, nil
}

// StoragePath returns the base directory served statically at /uploads.
func (s *Service) StoragePath() string {
	return s.storagePath
}

// SaveUploadedFile saves a multipart file into subDir under the upload
// directory with a uuid filename, and returns the path relative to the
// upload directory.
func (s *Service) SaveUploadedFile(fileHeader *multipart.FileHeader, subDir string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("fileHeader cannot be nil")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	extension := filepath.Ext(filepath.Base(fileHeader.Filename))
	if extension == "" {
		switch contentType := fileHeader.Header.Get("Content-Type"); {
		case strings.HasPrefix(contentType, "image/jpeg"):
			extension = ".jpg"
		case strings.HasPrefix(contentType, "image/png"):
			extension = ".png"
		case strings.HasPrefix(contentType, "image/gif"):
			extension = ".gif"
		default:
			return "", fmt.Errorf("unsupported file type or missing extension: %s", contentType)
		}
	}
	uniqueFilename := uuid.New().String() + extension

	cleanSubDir := filepath.Clean(subDir)
	if strings.HasPrefix(cleanSubDir, "..") {
		return "", fmt.Errorf("invalid subDir path")
	}

	destinationDir := filepath.Join(s.storagePath, cleanSubDir)
	if err := os.MkdirAll(destinationDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	destinationPath := filepath.Join(destinationDir, uniqueFilename)
	dst, err := os.Create(destinationPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", destinationPath, err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		os.Remove(destinationPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Info("File saved", zap.String("path", destinationPath))
	return filepath.ToSlash(filepath.Join(cleanSubDir, uniqueFilename)), nil
}

// DeleteFile deletes a file given its path relative to the upload directory.
// Deleting a file that does not exist is not an error.
func (s *Service) DeleteFile(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}

	cleanRelativePath := filepath.Clean(relativePath)
	if strings.Contains(cleanRelativePath, "..") {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("relativePath", relativePath))
		return fmt.Errorf("invalid file path for deletion")
	}

	fullPath := filepath.Join(s.storagePath, cleanRelativePath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}
	return nil
}
