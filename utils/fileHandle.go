package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"helpdesk/config"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an uploaded file under a generated unique name
// and returns the stored path. The caller removes the file again if the
// surrounding database transaction fails.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// timestamp plus uuid keeps names unique even within one second
	ext := filepath.Ext(file.Filename)
	newFilename := time.Now().Format("20060102150405") + "_" + uuid.NewString() + ext
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

// GetFileURL maps a stored path to its public URL under /uploads
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return config.AppConfig.BaseURL + "/uploads/" + filepath.Base(filePath)
}

// GetDownloadURL builds the authenticated serve endpoint for an attachment
func GetDownloadURL(attachmentID uint) string {
	return config.AppConfig.BaseURL + "/api/attachments/serve/" + uintToString(attachmentID)
}
