package adapter

import (
	"context"
	"time"
)

// ObjectStorage presigns time-limited URLs against an S3-compatible bucket.
// Keys are opaque to callers; no object bytes ever pass through the service.
type ObjectStorage interface {
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
}
