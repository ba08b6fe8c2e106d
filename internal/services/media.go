package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inkwell/internal/utils"
)

// MediaRoot returns the directory uploaded images are stored in.
func MediaRoot() string {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "./web/media"
	}
	return root
}

// SaveImage persists an already-validated upload under the media root and
// returns the URL path it will be served from.
func SaveImage(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(MediaRoot(), "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), utils.RandString(12), ext)

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return "/media/posts/" + filename, nil
}
