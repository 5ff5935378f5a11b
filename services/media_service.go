package services

import (
	"context"
	"floodguard/utils"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
)

const maxPhotoSize = 10 << 20 // 10 MiB

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaService stores incident photos in object storage and hands back the
// public URL that goes on the incident document.
type MediaService struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMediaService(client *minio.Client, bucket, publicURL string) *MediaService {
	return &MediaService{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// EnsureBucket creates the photo bucket if it does not exist yet. Called
// once at startup.
func (s *MediaService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}

	logrus.Infof("Created media bucket %s", s.bucket)
	return nil
}

// UploadIncidentPhoto validates and stores an uploaded photo, returning its
// public URL.
func (s *MediaService) UploadIncidentPhoto(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxPhotoSize {
		return "", utils.NewValidationError("Photo exceeds the 10MB size limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return "", utils.NewValidationError("Photo must be a JPEG, PNG, or WebP image")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", utils.NewServiceError("MEDIA_READ_FAILED", "Failed to read uploaded photo")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = extensionForType(contentType)
	}
	objectName := fmt.Sprintf("incidents/%s%s", utils.GenerateUUID(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, objectName, file, fileHeader.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logrus.Errorf("Failed to store incident photo: %v", err)
		return "", utils.NewServiceErrorWithStatus("MEDIA_STORE_FAILED", "Failed to store photo", http.StatusBadGateway)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}

func extensionForType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
