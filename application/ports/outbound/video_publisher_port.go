package outbound

import "context"

type PublishParams struct {
	VideoPath   string
	Title       string
	Description string
	Privacy     string
}

// VideoPublisherPort uploads the finished video to the public video
// platform and returns its URL.
type VideoPublisherPort interface {
	Publish(ctx context.Context, params PublishParams) (url string, err error)
}
