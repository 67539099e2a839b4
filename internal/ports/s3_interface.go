package ports

import (
	"context"
	"io"
)

// S3Storage : объектное хранилище для фотографий профиля
type S3Storage interface {
	UploadObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	ObjectURL(key string) string
	DeleteObject(ctx context.Context, key string) error
}
