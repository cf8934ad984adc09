package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"narration-desk/utils"

	"github.com/google/uuid"
)

// Store keeps uploaded files such as book covers.
type Store interface {
	// Put writes the object and returns its key and public URL.
	Put(ctx context.Context, prefix, filename string, r io.Reader, size int64, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Object identifies a stored file.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("unsupported file type")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExtension returns the file extension for an accepted image content type.
func ImageExtension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedImageTypes[ct]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return ext, nil
}

// objectKey builds prefix/yyyy/mm/<uuid><ext>; the client filename only contributes its extension.
func objectKey(prefix, filename, contentType string, at time.Time) (string, error) {
	ext, err := ImageExtension(contentType)
	if err != nil {
		return "", err
	}
	if ext == ".jpg" && strings.ToLower(path.Ext(filename)) == ".jpeg" {
		ext = ".jpeg"
	}
	prefix = strings.Trim(prefix, "/")
	return path.Join(prefix, at.Format("2006"), at.Format("01"), uuid.NewString()+ext), nil
}

// New picks MinIO when MINIO_ENDPOINT is set and a local directory otherwise.
func New(ctx context.Context) (Store, error) {
	if endpoint := utils.GetEnv("MINIO_ENDPOINT", ""); endpoint != "" {
		cfg := MinIOConfig{
			Endpoint:  endpoint,
			AccessKey: utils.GetEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: utils.GetEnv("MINIO_SECRET_KEY", ""),
			Bucket:    utils.GetEnv("MINIO_BUCKET", "narration-covers"),
			Region:    utils.GetEnv("MINIO_REGION", ""),
			UseSSL:    utils.GetEnvBool("MINIO_USE_SSL", false),
			PublicURL: utils.GetEnv("MINIO_PUBLIC_URL", ""),
		}
		s, err := NewMinIOStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := NewDiskStore(utils.GetEnv("UPLOAD_DIR", "uploads"), utils.GetEnv("UPLOAD_URL_PREFIX", "/uploads"))
	if err != nil {
		return nil, err
	}
	return s, nil
}
