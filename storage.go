package accounts

import "context"

// UploadInfo describes the payload handed to the storage provider.
type UploadInfo struct {
	ContentType string
	Size        int64
}

// Storage is the object-storage contract consumed by the avatar path.
// Providers live outside this package.
type Storage interface {
	Upload(ctx context.Context, path string, data []byte, info UploadInfo) error
	MapURL(path string) string
}
