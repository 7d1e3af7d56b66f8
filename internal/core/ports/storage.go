package ports

import (
	"context"
	"io"
)

// Storage buckets.
const (
	BucketTeamImages = "team-images"
	BucketAvatars    = "avatars"
)

// FileUpload is a file handed to a service for storage.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// FileStorage stores objects in named buckets and hands out public URLs for them.
type FileStorage interface {
	Upload(ctx context.Context, bucket, path string, body io.Reader) error
	PublicURL(bucket, path string) string
}
