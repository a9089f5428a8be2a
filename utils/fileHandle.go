package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxUploadSize = 5 * 1024 * 1024 // 5MB

var pdfMagic = []byte("%PDF-")

// ValidateUpload enforces the document rules: PDF only, at most 5MB, and no
// spaces in the file name.
func ValidateUpload(file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("file is required")
	}
	if strings.Contains(file.Filename, " ") {
		return fmt.Errorf("file name should not contain spaces")
	}
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file size must be less than 5MB")
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return fmt.Errorf("file must be a PDF")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("could not read uploaded file")
	}
	defer src.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(src, header); err != nil || !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("file must be a PDF")
	}
	return nil
}

// SaveUploadedFile stores the upload under destDir with a collision-free name
// and returns the stored path.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + filepath.Ext(file.Filename)
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}
