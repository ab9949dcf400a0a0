package outbound

import "context"

// VideoStorePort uploads the finished video to durable storage and
// returns a shareable link. Re-uploading the same file is safe.
type VideoStorePort interface {
	Upload(ctx context.Context, localPath, name string) (link string, err error)
}
