package filestorage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testStoragePath = "./test_photos_temp"

func setupFileStorageService(t *testing.T) (*FileStorageService, func()) {
	err := os.MkdirAll(testStoragePath, os.ModePerm)
	require.NoError(t, err, "Failed to create test storage path")

	fsService, err := NewFileStorageService(testStoragePath, zap.NewNop())
	require.NoError(t, err, "Failed to create FileStorageService")
	require.NotNil(t, fsService)

	cleanup := func() {
		if err := os.RemoveAll(testStoragePath); err != nil {
			t.Logf("Warning: Failed to remove test storage path %s: %v", testStoragePath, err)
		}
	}
	return fsService, cleanup
}

// newTestFileHeader builds a real multipart.FileHeader the way Gin would
// produce one from an incoming request.
func newTestFileHeader(t *testing.T, fieldname, filename, content, contentType string) *multipart.FileHeader {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldname, filename))
	if contentType != "" {
		partHeader.Set("Content-Type", contentType)
	}

	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)

	files := form.File[fieldname]
	require.NotEmpty(t, files, "No files found for fieldname %s", fieldname)
	return files[0]
}

func TestFileStorageService_SaveUploadedFile_Success(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	mockContent := "This is a test photo file."
	fh := newTestFileHeader(t, "photo", "room_photo.jpg", mockContent, "image/jpeg")

	subDir := "full"
	relativePath, err := fsService.SaveUploadedFile(fh, subDir)

	require.NoError(t, err)
	assert.NotEmpty(t, relativePath)
	assert.True(t, strings.HasPrefix(relativePath, subDir+"/"), "Relative path should start with subDir")
	assert.True(t, strings.HasSuffix(relativePath, ".jpg"), "Relative path should end with .jpg extension")

	fullPath := filepath.Join(testStoragePath, relativePath)
	fileContent, err := os.ReadFile(fullPath)
	assert.NoError(t, err)
	assert.Equal(t, mockContent, string(fileContent))
}

func TestFileStorageService_SaveUploadedFile_UnsupportedType(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	fh := newTestFileHeader(t, "photo", "notes", "some text", "text/plain")

	_, err := fsService.SaveUploadedFile(fh, "full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type or missing extension")
}

func TestFileStorageService_SaveUploadedFile_NoExtensionFallback(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	fhPNG := newTestFileHeader(t, "photo", "photopng", "png content", "image/png")
	relPathPNG, err := fsService.SaveUploadedFile(fhPNG, "thumbs")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(relPathPNG, ".png"))

	fhJPG := newTestFileHeader(t, "photo", "photojpeg", "jpeg content", "image/jpeg")
	relPathJPG, err := fsService.SaveUploadedFile(fhJPG, "thumbs")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(relPathJPG, ".jpg"))
}

func TestFileStorageService_DeleteFile_Success(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	subDir := "delete_test"
	tempFilePath := filepath.Join(testStoragePath, subDir, "file_to_delete.jpg")
	require.NoError(t, os.MkdirAll(filepath.Join(testStoragePath, subDir), os.ModePerm))
	require.NoError(t, os.WriteFile(tempFilePath, []byte("temp"), 0644))

	relativePath := filepath.ToSlash(filepath.Join(subDir, "file_to_delete.jpg"))
	require.NoError(t, fsService.DeleteFile(relativePath))

	_, err := os.Stat(tempFilePath)
	assert.True(t, os.IsNotExist(err), "File should not exist after deletion")
}

func TestFileStorageService_DeleteFile_NonExistent(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	err := fsService.DeleteFile("full/non_existent_file.jpg")
	assert.NoError(t, err, "Deleting a non-existent file should not error")
}

func TestFileStorageService_DeleteFile_PathTraversal(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	dummyFilePath := filepath.Join(testStoragePath, "../dummy_outside.txt")
	os.WriteFile(dummyFilePath, []byte("dummy"), 0644)
	defer os.Remove(dummyFilePath)

	err := fsService.DeleteFile("../../dummy_outside.txt")
	require.Error(t, err, "Should not be able to delete files outside storage path")
	assert.Contains(t, err.Error(), "invalid file path for deletion")

	_, statErr := os.Stat(dummyFilePath)
	assert.NoError(t, statErr, "External dummy file should still exist.")
}

func TestFileStorageService_SaveUploadedFile_NilHeader(t *testing.T) {
	fsService, cleanup := setupFileStorageService(t)
	defer cleanup()

	_, err := fsService.SaveUploadedFile(nil, "full")
	assert.Error(t, err)
	assert.EqualError(t, err, "fileHeader cannot be nil")
}
