package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/FinalGun/foodgram/config"
)

const dataURIPrefix = "data:image/"

// ImageService stores decoded images, to S3 when configured and to the
// local media directory otherwise.
type ImageService struct {
	s3Config *config.S3Config
	mediaDir string
	baseURL  string
}

func NewImageService(s3Config *config.S3Config, mediaDir, baseURL string) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		mediaDir: mediaDir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// DecodeDataURI decodes a "data:image/<ext>;base64,<payload>" string into
// the raw bytes and the inferred extension.
func DecodeDataURI(data string) ([]byte, string, error) {
	if !strings.HasPrefix(data, dataURIPrefix) {
		return nil, "", &ValidationError{Field: "image", Message: "expected a base64 data URI"}
	}
	format, payload, found := strings.Cut(data, ";base64,")
	if !found {
		return nil, "", &ValidationError{Field: "image", Message: "expected a base64 data URI"}
	}
	ext := strings.TrimPrefix(format, dataURIPrefix)
	if ext == "" {
		return nil, "", &ValidationError{Field: "image", Message: "missing image format"}
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", &ValidationError{Field: "image", Message: "invalid base64 payload"}
	}
	return decoded, ext, nil
}

// SaveDataURI decodes and stores an image, returning its stored location.
func (s *ImageService) SaveDataURI(ctx context.Context, prefix, dataURI string) (string, error) {
	decoded, ext, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s/%s.%s", prefix, uuid.New().String(), ext)

	if s.s3Config != nil {
		_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.s3Config.BucketName),
			Key:         aws.String(name),
			Body:        bytes.NewReader(decoded),
			ContentType: aws.String("image/" + ext),
		})
		if err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, name), nil
	}

	path := filepath.Join(s.mediaDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	if err := os.WriteFile(path, decoded, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if s.baseURL != "" {
		return s.baseURL + "/" + name, nil
	}
	return "/" + filepath.ToSlash(filepath.Join("media", name)), nil
}
