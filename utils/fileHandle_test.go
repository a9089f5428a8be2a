package utils

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFileHeader builds a *multipart.FileHeader the way fiber would hand it
// to a handler.
func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func pdfBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "%PDF-1.4\n")
	return data
}

func TestValidateUpload_AcceptsPdf(t *testing.T) {
	fh := buildFileHeader(t, "offer_letter.pdf", pdfBytes(1024))
	assert.NoError(t, ValidateUpload(fh))
}

func TestValidateUpload_RejectsSpacesInName(t *testing.T) {
	fh := buildFileHeader(t, "offer letter.pdf", pdfBytes(1024))
	err := ValidateUpload(fh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spaces")
}

func TestValidateUpload_RejectsNonPdf(t *testing.T) {
	fh := buildFileHeader(t, "offer.docx", []byte("not a pdf"))
	assert.Error(t, ValidateUpload(fh))

	// PDF extension but wrong content
	fh = buildFileHeader(t, "offer.pdf", []byte("<html></html>"))
	assert.Error(t, ValidateUpload(fh))
}

func TestValidateUpload_RejectsOversizedFile(t *testing.T) {
	fh := buildFileHeader(t, "offer.pdf", pdfBytes(MaxUploadSize+1))
	err := ValidateUpload(fh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5MB")
}

func TestValidateUpload_RejectsMissingFile(t *testing.T) {
	assert.Error(t, ValidateUpload(nil))
}

func TestSaveUploadedFile(t *testing.T) {
	dir := t.TempDir()
	fh := buildFileHeader(t, "mail_copy.pdf", pdfBytes(256))

	path, err := SaveUploadedFile(fh, dir)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".pdf", filepath.Ext(path))
	assert.NotContains(t, filepath.Base(path), " ")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, 256)

	// A second save of the same upload must not collide
	other, err := SaveUploadedFile(fh, dir)
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}
