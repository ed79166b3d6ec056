package enhance

import (
	"context"
	"io"

	"resumeflow/internal/storage"
)

// StorageArchiver 把对象存储客户端适配为 Archiver。
type StorageArchiver struct {
	client *storage.Client
}

// NewStorageArchiver 构造归档器。
func NewStorageArchiver(client *storage.Client) *StorageArchiver {
	return &StorageArchiver{client: client}
}

// Upload 实现 Archiver。
func (a *StorageArchiver) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := a.client.Upload(ctx, objectKey, reader, size, contentType)
	return err
}
