package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/producthelper/backend/config"
	"github.com/producthelper/backend/internal/logger"
)

// ImageService decodes data-URL images from recipe payloads and stores
// them in S3.
type ImageService struct {
	s3cfg *config.S3Config
	log   *logger.Logger
}

func NewImageService(s3cfg *config.S3Config, log *logger.Logger) *ImageService {
	return &ImageService{s3cfg: s3cfg, log: log.With("service", "image")}
}

// StoreDataURL uploads a "data:image/...;base64," payload and returns the
// public URL. Plain URLs pass through unchanged.
func (s *ImageService) StoreDataURL(ctx context.Context, dataURL string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:image") {
		return dataURL, nil
	}

	meta, encoded, found := strings.Cut(dataURL, ";base64,")
	if !found {
		return "", fmt.Errorf("malformed image data URL")
	}
	ext := "png"
	if _, mime, ok := strings.Cut(meta, "image/"); ok && mime != "" {
		ext = mime
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode image data: %w", err)
	}

	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New(), ext)
	_, err = s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3cfg.BucketName, key)
	s.log.Info("recipe image stored", "key", key)
	return url, nil
}
