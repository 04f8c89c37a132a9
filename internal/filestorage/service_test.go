// File: internal/filestorage/service_test.go
package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marvel_nexus_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStorage(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(&config.Config{UploadDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func multipartFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestService_SaveUploadedFile(t *testing.T) {
	svc := setupStorage(t)

	header := multipartFileHeader(t, "avatar.png", "png-bytes")
	relPath, err := svc.SaveUploadedFile(header, "avatars")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "avatars/"))
	assert.True(t, strings.HasSuffix(relPath, ".png"))

	saved, err := os.ReadFile(filepath.Join(svc.StoragePath(), filepath.FromSlash(relPath)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(saved))
}

func TestService_SaveUploadedFile_UniqueNames(t *testing.T) {
	svc := setupStorage(t)

	header := multipartFileHeader(t, "avatar.png", "x")
	first, err := svc.SaveUploadedFile(header, "avatars")
	require.NoError(t, err)
	second, err := svc.SaveUploadedFile(header, "avatars")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestService_SaveUploadedFile_RejectsTraversal(t *testing.T) {
	svc := setupStorage(t)

	header := multipartFileHeader(t, "avatar.png", "x")
	_, err := svc.SaveUploadedFile(header, "../outside")

	assert.Error(t, err)
}

func TestService_DeleteFile(t *testing.T) {
	svc := setupStorage(t)

	header := multipartFileHeader(t, "avatar.png", "x")
	relPath, err := svc.SaveUploadedFile(header, "avatars")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(relPath))
	_, statErr := os.Stat(filepath.Join(svc.StoragePath(), filepath.FromSlash(relPath)))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting an already-missing file is not an error.
	assert.NoError(t, svc.DeleteFile(relPath))

	assert.Error(t, svc.DeleteFile("../etc/passwd"))
}
